package store

import (
	"sort"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// GetCurrentUser returns the user behind the session pointer.
func (s *Store) GetCurrentUser() (entities.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser()
}

// IsAdmin reports whether a session is active and belongs to an admin.
func (s *Store) IsAdmin() bool {
	u, ok := s.GetCurrentUser()
	return ok && u.IsAdmin()
}

// ListBooks returns all books, newest first. Books created in the same
// millisecond keep reverse insertion order.
func (s *Store) ListBooks() []entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := reversedBooks(s.mem.Books)
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].CreatedAt > books[j].CreatedAt
	})
	return books
}

// ListUpcomingBooks returns books whose release time is strictly in the
// future, soonest first.
func (s *Store) ListUpcomingBooks() []entities.Book {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var upcoming []entities.Book
	for _, b := range s.mem.Books {
		if b.IsUpcoming(now) {
			upcoming = append(upcoming, copyBook(b))
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ReleaseAt.Before(*upcoming[j].ReleaseAt)
	})
	return upcoming
}

// GetBook looks up a single book.
func (s *Store) GetBook(id string) (entities.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := findBook(s.mem, id)
	if !ok {
		return entities.Book{}, false
	}
	return copyBook(b), true
}

// ListReviewsByBook returns a book's reviews, newest first, joined with
// their authors. The author is nil if it does not resolve.
func (s *Store) ListReviewsByBook(bookID string) []entities.ReviewWithUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entities.ReviewWithUser
	for _, r := range newestReviews(s.mem.Reviews) {
		if r.BookID != bookID {
			continue
		}
		out = append(out, entities.ReviewWithUser{Review: r, User: publicUser(s.mem, r.UserID)})
	}
	return out
}

// ListAllReviews returns every review joined with its author and book,
// newest first. Used by the admin sentiment view.
func (s *Store) ListAllReviews() []entities.ReviewDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := newestReviews(s.mem.Reviews)
	out := make([]entities.ReviewDetails, 0, len(reviews))
	for _, r := range reviews {
		d := entities.ReviewDetails{Review: r, User: publicUser(s.mem, r.UserID)}
		if b, ok := findBook(s.mem, r.BookID); ok {
			b = copyBook(b)
			d.Book = &b
		}
		out = append(out, d)
	}
	return out
}

// ReviewFor returns the current user's review of a book, if any.
func (s *Store) ReviewFor(bookID string) (entities.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.currentUser()
	if !ok {
		return entities.Review{}, false
	}
	for _, r := range s.mem.Reviews {
		if r.BookID == bookID && r.UserID == user.ID {
			return r, true
		}
	}
	return entities.Review{}, false
}

func reversedBooks(in []entities.Book) []entities.Book {
	out := make([]entities.Book, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		out = append(out, copyBook(in[i]))
	}
	return out
}

func newestReviews(in []entities.Review) []entities.Review {
	out := make([]entities.Review, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		out = append(out, in[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

func copyBook(b entities.Book) entities.Book {
	if b.ReleaseAt != nil {
		at := *b.ReleaseAt
		b.ReleaseAt = &at
	}
	return b
}

func publicUser(mem *entities.Snapshot, id string) *entities.PublicUser {
	u, ok := findUser(mem, id)
	if !ok {
		return nil
	}
	p := u.Public()
	return &p
}
