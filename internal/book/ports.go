package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Insert(ctx context.Context, b Book) error
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	List(ctx context.Context) ([]Book, error)
	SearchByTitle(ctx context.Context, term string) ([]Book, error)
	Update(ctx context.Context, b Book) error
	Delete(ctx context.Context, isbn string) error
}
