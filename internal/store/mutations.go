package store

import (
	"fmt"
	"strings"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/events"
)

// BookInput holds the fields of a new book.
type BookInput struct {
	Title       string
	Author      string
	Description string
	ReleaseAt   *entities.Timestamp
}

// AddBook publishes a new book. Admin only; title and author must be
// non-empty after trimming.
func (s *Store) AddBook(in BookInput) (entities.Book, error) {
	var book entities.Book
	err := s.mutate(func(mem *entities.Snapshot) error {
		if u, ok := s.currentUser(); !ok || !u.IsAdmin() {
			return ErrAdminRequired
		}

		title := strings.TrimSpace(in.Title)
		author := strings.TrimSpace(in.Author)
		if title == "" {
			return ErrTitleRequired
		}
		if author == "" {
			return ErrAuthorRequired
		}

		book = entities.Book{
			ID:          s.newID(BookIDPrefix),
			Title:       title,
			Author:      author,
			Description: strings.TrimSpace(in.Description),
			CreatedAt:   s.now(),
		}
		if in.ReleaseAt != nil {
			at := *in.ReleaseAt
			book.ReleaseAt = &at
		}
		mem.Books = append(mem.Books, copyBook(book))
		return nil
	})
	if err != nil {
		return entities.Book{}, err
	}

	s.relay.Emit(events.BookAdded{Book: book})
	s.relay.Emit(events.Success(fmt.Sprintf("New book published: %s", book.Title)))
	return book, nil
}

// AddOrUpdateReview stores the current user's review of a book. A second
// call for the same book overwrites rating, text and timestamp in place.
func (s *Store) AddOrUpdateReview(bookID string, rating int, text string) (entities.Review, error) {
	var review entities.Review
	err := s.mutate(func(mem *entities.Snapshot) error {
		user, ok := s.currentUser()
		if !ok {
			return ErrLoginRequired
		}
		if !entities.ValidRating(rating) {
			return ErrInvalidRating
		}
		if _, ok := findBook(mem, bookID); !ok {
			return ErrBookNotFound
		}

		now := s.now()
		for i := range mem.Reviews {
			r := &mem.Reviews[i]
			if r.BookID == bookID && r.UserID == user.ID {
				r.Rating = rating
				r.Text = text
				r.CreatedAt = now
				review = *r
				return nil
			}
		}

		review = entities.Review{
			ID:        s.newID(ReviewIDPrefix),
			BookID:    bookID,
			UserID:    user.ID,
			Rating:    rating,
			Text:      text,
			CreatedAt: now,
		}
		mem.Reviews = append(mem.Reviews, review)
		return nil
	})
	if err != nil {
		return entities.Review{}, err
	}

	s.relay.Emit(events.Success("Review saved"))
	return review, nil
}

// DeleteReview removes a review. Admin only; an unknown id is a no-op.
func (s *Store) DeleteReview(reviewID string) error {
	err := s.mutate(func(mem *entities.Snapshot) error {
		if u, ok := s.currentUser(); !ok || !u.IsAdmin() {
			return ErrAdminRequired
		}
		for i, r := range mem.Reviews {
			if r.ID == reviewID {
				mem.Reviews = append(mem.Reviews[:i], mem.Reviews[i+1:]...)
				return nil
			}
		}
		return errNoChange
	})
	if err == errNoChange {
		return nil
	}
	if err != nil {
		return err
	}

	s.relay.Emit(events.Success("Review deleted"))
	return nil
}

// Register creates a user account and signs it in.
func (s *Store) Register(name, email, password string) (entities.User, error) {
	var user entities.User
	err := s.mutate(func(mem *entities.Snapshot) error {
		name = strings.TrimSpace(name)
		email = entities.NormalizeEmail(email)
		switch {
		case name == "":
			return ErrNameRequired
		case email == "":
			return ErrEmailRequired
		case password == "":
			return ErrPasswordRequired
		}
		if _, exists := findUserByEmail(mem, email); exists {
			return ErrEmailTaken
		}

		user = entities.User{
			ID:       s.newID(UserIDPrefix),
			Name:     name,
			Email:    email,
			Password: password,
			Role:     entities.RoleUser,
		}
		mem.Users = append(mem.Users, user)
		mem.CurrentUserID = &user.ID
		return nil
	})
	if err != nil {
		return entities.User{}, err
	}

	s.relay.Emit(events.Login{User: user.Public()})
	s.relay.Emit(events.Success(fmt.Sprintf("Welcome, %s", user.Name)))
	return user, nil
}

// Login signs in the user whose normalized email and exact password match.
// On failure the session pointer is left unchanged.
func (s *Store) Login(email, password string) (entities.User, error) {
	var user entities.User
	err := s.mutate(func(mem *entities.Snapshot) error {
		u, ok := findCredentials(mem, entities.NormalizeEmail(email), password)
		if !ok {
			return ErrInvalidCredentials
		}
		user = u
		id := u.ID
		mem.CurrentUserID = &id
		return nil
	})
	if err != nil {
		return entities.User{}, err
	}

	s.relay.Emit(events.Login{User: user.Public()})
	s.relay.Emit(events.Success(fmt.Sprintf("Signed in as %s", user.Name)))
	return user, nil
}

// Logout clears the session pointer. It always succeeds.
func (s *Store) Logout() {
	_ = s.mutate(func(mem *entities.Snapshot) error {
		mem.CurrentUserID = nil
		return nil
	})

	s.relay.Emit(events.Logout{})
	s.relay.Emit(events.Info("Signed out"))
}

// EnsureAdmin creates an admin account unless one with the same email
// already exists. It does not touch the session pointer. An existing
// non-admin account with that email is a conflict.
func (s *Store) EnsureAdmin(name, email, password string) (entities.User, bool, error) {
	var (
		user    entities.User
		created bool
	)
	err := s.mutate(func(mem *entities.Snapshot) error {
		email = entities.NormalizeEmail(email)
		if email == "" {
			return ErrEmailRequired
		}
		if password == "" {
			return ErrPasswordRequired
		}
		if existing, ok := findUserByEmail(mem, email); ok {
			if !existing.IsAdmin() {
				return ErrEmailTaken
			}
			user = existing
			return errNoChange
		}

		name = strings.TrimSpace(name)
		if name == "" {
			name = "Admin"
		}
		user = entities.User{
			ID:       s.newID(UserIDPrefix),
			Name:     name,
			Email:    email,
			Password: password,
			Role:     entities.RoleAdmin,
		}
		mem.Users = append(mem.Users, user)
		created = true
		return nil
	})
	if err == errNoChange {
		return user, false, nil
	}
	if err != nil {
		return entities.User{}, false, err
	}
	return user, created, nil
}

// errNoChange aborts a mutation without persisting; it never escapes the store.
var errNoChange = entities.NewError(entities.ErrValidation, "no change")

// findCredentials matches email and password together, so a snapshot that
// holds the same email twice still signs in whichever account the password
// belongs to.
func findCredentials(mem *entities.Snapshot, email, password string) (entities.User, bool) {
	for _, u := range mem.Users {
		if u.Email == email && u.Password == password {
			return u, true
		}
	}
	return entities.User{}, false
}

func findUserByEmail(mem *entities.Snapshot, email string) (entities.User, bool) {
	for _, u := range mem.Users {
		if u.Email == email {
			return u, true
		}
	}
	return entities.User{}, false
}
