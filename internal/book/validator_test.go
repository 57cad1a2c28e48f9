package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() Book {
	return Book{
		ISBN:             "978-0-13-468599-1",
		Title:            "Systems Design",
		Author:           "A. Engineer",
		PageCount:        200,
		ShortDescription: "intro",
		ReleaseDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestIsValidISBN(t *testing.T) {
	tests := []struct {
		isbn string
		want bool
	}{
		{"9780134685991", true},
		{"978-0-13-468599-1", true},
		{"0-306-40615-2", true},
		{"0306406152", true},
		{"123-4567890123", true},
		{"", false},
		{"INVALID", false},
		{"978 0 13 468599 1", false},
		{"978013468599X", false},
		{"12345678901", false},
		{"123456789", false},
		{"12345678901234", false},
		{"----------", false},
		{"1234567890-", false},
		{"978-0-13-468599-1-", false},
		{"-1234567890", true},
	}

	for _, tt := range tests {
		t.Run(tt.isbn, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidISBN(tt.isbn))
		})
	}
}

func TestValidate_ValidBook(t *testing.T) {
	assert.Empty(t, Validate(validBook()))
}

func TestValidate_ZeroReleaseDateIsAccepted(t *testing.T) {
	b := validBook()
	b.ReleaseDate = time.Time{}
	assert.Empty(t, Validate(b))
}

func TestValidate_SingleFieldViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Book)
		want   Violation
	}{
		{
			name:   "invalid isbn",
			mutate: func(b *Book) { b.ISBN = "INVALID" },
			want:   Violation{PropertyName: "isbn", ErrorMessage: "Value was not a valid ISBN-13"},
		},
		{
			name:   "blank title",
			mutate: func(b *Book) { b.Title = "   " },
			want:   Violation{PropertyName: "title", ErrorMessage: "'Title' must not be empty."},
		},
		{
			name:   "empty author",
			mutate: func(b *Book) { b.Author = "" },
			want:   Violation{PropertyName: "author", ErrorMessage: "'Author' must not be empty."},
		},
		{
			name:   "zero page count",
			mutate: func(b *Book) { b.PageCount = 0 },
			want:   Violation{PropertyName: "pageCount", ErrorMessage: "'Page Count' must be greater than '0'."},
		},
		{
			name:   "negative page count",
			mutate: func(b *Book) { b.PageCount = -3 },
			want:   Violation{PropertyName: "pageCount", ErrorMessage: "'Page Count' must be greater than '0'."},
		},
		{
			name:   "blank short description",
			mutate: func(b *Book) { b.ShortDescription = "\t\n" },
			want:   Violation{PropertyName: "shortDescription", ErrorMessage: "'Short Description' must not be empty."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBook()
			tt.mutate(&b)

			got := Validate(b)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestValidate_CollectsEveryViolationInFieldOrder(t *testing.T) {
	got := Validate(Book{ISBN: "abc"})

	require.Len(t, got, 5)
	names := make([]string, 0, len(got))
	for _, v := range got {
		names = append(names, v.PropertyName)
	}
	assert.Equal(t, []string{"isbn", "title", "author", "pageCount", "shortDescription"}, names)
}

func TestValidate_IsDeterministic(t *testing.T) {
	b := Book{ISBN: "1", Title: "", PageCount: -1}
	assert.Equal(t, Validate(b), Validate(b))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Title", displayName("Title"))
	assert.Equal(t, "Page Count", displayName("PageCount"))
	assert.Equal(t, "Short Description", displayName("ShortDescription"))
}
