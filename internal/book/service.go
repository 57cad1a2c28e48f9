package book

import (
	"context"
	"errors"
	"strings"
)

// Service provides book-related business logic on top of a Repository.
// It holds no state between calls; the repository is the sole authority.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts b unless a book with the same ISBN exists. It returns false
// for a duplicate, whether caught by the lookup or by the store's constraint.
func (s *Service) Create(ctx context.Context, b Book) (bool, error) {
	existing, err := s.GetByISBN(ctx, b.ISBN)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	// A concurrent create can pass the lookup above; the store has the final word.
	if err := s.repo.Insert(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByISBN returns the book with the given ISBN, or nil if there is none.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	b, err := s.repo.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// GetAll returns every stored book.
func (s *Service) GetAll(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(books), nil
}

// SearchByTitle returns books whose title contains term, ignoring case.
// A blank term matches every book.
func (s *Service) SearchByTitle(ctx context.Context, term string) ([]Book, error) {
	if strings.TrimSpace(term) == "" {
		return s.GetAll(ctx)
	}
	books, err := s.repo.SearchByTitle(ctx, term)
	if err != nil {
		return nil, err
	}
	return nonNil(books), nil
}

// Update replaces the stored book keyed by b.ISBN. It returns false and
// inserts nothing when no such book exists.
func (s *Service) Update(ctx context.Context, b Book) (bool, error) {
	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the book with the given ISBN. It returns false when there
// was nothing to remove.
func (s *Service) Delete(ctx context.Context, isbn string) (bool, error) {
	if err := s.repo.Delete(ctx, isbn); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func nonNil(books []Book) []Book {
	if books == nil {
		return []Book{}
	}
	return books
}
