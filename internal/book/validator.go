package book

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const invalidISBNMessage = "Value was not a valid ISBN-13"

var (
	validate    = newValidate()
	isbnCharsRX = regexp.MustCompile(`^[\d-]+$`)
)

func newValidate() *validator.Validate {
	v := validator.New()

	// Violations carry the JSON property name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("isbn", validateISBN); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(err)
	}
	return v
}

// validateISBN accepts digits and hyphens only, with exactly 10 or 13 digits.
func validateISBN(fl validator.FieldLevel) bool {
	return IsValidISBN(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// IsValidISBN reports whether s looks like an ISBN-10 or ISBN-13, ignoring
// hyphens. The last character must be a digit.
func IsValidISBN(s string) bool {
	if !isbnCharsRX.MatchString(s) || s[len(s)-1] == '-' {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 10 || digits == 13
}

// Validate checks b against every field rule and returns all violations.
// An empty result means b is valid.
func Validate(b Book) []Violation {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{PropertyName: "body", ErrorMessage: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			PropertyName: fe.Field(),
			ErrorMessage: messageFor(fe),
		})
	}
	return violations
}

func messageFor(fe validator.FieldError) string {
	display := displayName(fe.StructField())
	switch fe.Tag() {
	case "isbn":
		return invalidISBNMessage
	case "notblank":
		return fmt.Sprintf("'%s' must not be empty.", display)
	case "gt":
		return fmt.Sprintf("'%s' must be greater than '%s'.", display, fe.Param())
	default:
		return fmt.Sprintf("'%s' is invalid.", display)
	}
}

// displayName turns "ShortDescription" into "Short Description".
func displayName(field string) string {
	var sb strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
