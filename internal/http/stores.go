package http

import (
	"context"
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/store"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the operations it calls; *store.Store
// satisfies all of them (see internal/interfaces).

// SessionReader exposes the store-wide session.
type SessionReader interface {
	GetCurrentUser() (entities.User, bool)
	IsAdmin() bool
}

// BookStore is used by BooksController.
type BookStore interface {
	SessionReader
	ListBooks() []entities.Book
	ListUpcomingBooks() []entities.Book
	GetBook(id string) (entities.Book, bool)
	AddBook(in store.BookInput) (entities.Book, error)
}

// ReviewStore is used by ReviewsController.
type ReviewStore interface {
	SessionReader
	GetBook(id string) (entities.Book, bool)
	ListReviewsByBook(bookID string) []entities.ReviewWithUser
	ReviewFor(bookID string) (entities.Review, bool)
	AddOrUpdateReview(bookID string, rating int, text string) (entities.Review, error)
	DeleteReview(reviewID string) error
}

// AccountStore is used by AuthController.
type AccountStore interface {
	SessionReader
	Register(name, email, password string) (entities.User, error)
	Login(email, password string) (entities.User, error)
	Logout()
}

// AdminStore is used by AdminController.
type AdminStore interface {
	SessionReader
	ListAllReviews() []entities.ReviewDetails
	ReloadFromGateway(ctx context.Context) error
	Flush(ctx context.Context) error
}

// PersistStatus reports the outcome of the latest background snapshot write.
type PersistStatus interface {
	LastError() error
}

// JobSchedule reports when background jobs run next.
type JobSchedule interface {
	IsRunning() bool
	Jobs() []string
	NextRun(name string) *time.Time
}

// SnapshotClock reports when the persisted snapshot was last written.
type SnapshotClock interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}
