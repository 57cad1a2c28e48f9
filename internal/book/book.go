package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned by a repository when the isbn uniqueness
	// constraint rejects an insert.
	ErrDuplicateISBN = errors.New("book with the same isbn already exists")
)

// Book represents a book entity. ISBN is its identity.
type Book struct {
	ISBN             string    `json:"isbn" validate:"isbn"`
	Title            string    `json:"title" validate:"notblank"`
	Author           string    `json:"author" validate:"notblank"`
	PageCount        int       `json:"pageCount" validate:"gt=0"`
	ShortDescription string    `json:"shortDescription" validate:"notblank"`
	ReleaseDate      time.Time `json:"releaseDate"`
}

// Violation describes a single field that failed validation.
type Violation struct {
	PropertyName string `json:"propertyName"`
	ErrorMessage string `json:"errorMessage"`
}
