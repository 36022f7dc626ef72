package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/events"
)

func TestStore_Initialize(t *testing.T) {
	t.Run("starts empty without a snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Empty(t, env.store.ListBooks())
		_, ok := env.store.GetCurrentUser()
		assert.False(t, ok)
	})

	t.Run("loads the persisted snapshot", func(t *testing.T) {
		gw := &memoryGateway{snap: &entities.Snapshot{
			Users:         []entities.User{{ID: "u_1", Name: "Ann", Email: "ann@example.com", Role: entities.RoleAdmin}},
			Books:         []entities.Book{{ID: "b_1", Title: "Dune", Author: "Herbert", CreatedAt: 1}},
			Reviews:       []entities.Review{},
			CurrentUserID: strPtr("u_1"),
		}}
		s := New(gw, events.NewRelay(), WithPersister(&recordingPersister{}))
		require.NoError(t, s.Initialize(context.Background()))

		assert.True(t, s.IsAdmin())
		assert.Len(t, s.ListBooks(), 1)
	})

	t.Run("treats an invalid snapshot as empty", func(t *testing.T) {
		gw := &memoryGateway{loadErr: entities.ErrInvalidSnapshot}
		s := New(gw, events.NewRelay(), WithPersister(&recordingPersister{}))
		require.NoError(t, s.Initialize(context.Background()))
		assert.Empty(t, s.ListBooks())
	})

	t.Run("returns other load failures", func(t *testing.T) {
		gw := &memoryGateway{loadErr: errors.New("disk on fire")}
		s := New(gw, events.NewRelay(), WithPersister(&recordingPersister{}))
		err := s.Initialize(context.Background())
		assert.ErrorIs(t, err, entities.ErrPersistence)
	})
}

func TestStore_AddBook(t *testing.T) {
	t.Run("admin publishes a book at the head of the list", func(t *testing.T) {
		env := newTestEnv(t)
		env.asAdmin(t)

		first, err := env.store.AddBook(BookInput{Title: "First", Author: "A"})
		require.NoError(t, err)
		env.clock.Advance(time.Second)
		second, err := env.store.AddBook(BookInput{Title: "  Second ", Author: " B ", Description: " desc "})
		require.NoError(t, err)

		assert.Equal(t, "Second", second.Title)
		assert.Equal(t, "B", second.Author)
		assert.Equal(t, "desc", second.Description)
		assert.Equal(t, entities.FromTime(env.clock.Now()), second.CreatedAt)

		books := env.store.ListBooks()
		require.Len(t, books, 2)
		assert.Equal(t, second.ID, books[0].ID)
		assert.Equal(t, first.ID, books[1].ID)
	})

	t.Run("newest first even within the same millisecond", func(t *testing.T) {
		env := newTestEnv(t)
		env.asAdmin(t)

		_, err := env.store.AddBook(BookInput{Title: "First", Author: "A"})
		require.NoError(t, err)
		second, err := env.store.AddBook(BookInput{Title: "Second", Author: "B"})
		require.NoError(t, err)

		assert.Equal(t, second.ID, env.store.ListBooks()[0].ID)
	})

	t.Run("persists and emits notifications", func(t *testing.T) {
		env := newTestEnv(t)
		env.asAdmin(t)
		before := env.persister.count()

		book, err := env.store.AddBook(BookInput{Title: "Dune", Author: "Herbert"})
		require.NoError(t, err)

		assert.Equal(t, before+1, env.persister.count())
		require.Len(t, env.persister.last().Books, 1)
		assert.Equal(t, book, env.persister.last().Books[0])

		require.Len(t, env.events, 2)
		assert.Equal(t, events.BookAdded{Book: book}, env.events[0])
		assert.Equal(t, events.Success("New book published: Dune"), env.events[1])
	})

	t.Run("non-admin is rejected without changes", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)
		before := env.persister.count()

		_, err = env.store.AddBook(BookInput{Title: "Dune", Author: "Herbert"})
		assert.ErrorIs(t, err, entities.ErrAuthorization)
		assert.ErrorIs(t, err, ErrAdminRequired)
		assert.Empty(t, env.store.ListBooks())
		assert.Equal(t, before, env.persister.count())
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.store.AddBook(BookInput{Title: "Dune", Author: "Herbert"})
		assert.ErrorIs(t, err, ErrAdminRequired)
	})

	t.Run("blank title or author fails validation", func(t *testing.T) {
		env := newTestEnv(t)
		env.asAdmin(t)

		_, err := env.store.AddBook(BookInput{Title: "   ", Author: "Herbert"})
		assert.ErrorIs(t, err, ErrTitleRequired)
		assert.ErrorIs(t, err, entities.ErrValidation)

		_, err = env.store.AddBook(BookInput{Title: "Dune", Author: "\t"})
		assert.ErrorIs(t, err, ErrAuthorRequired)

		assert.Empty(t, env.store.ListBooks())
	})
}

func TestStore_ListUpcomingBooks(t *testing.T) {
	env := newTestEnv(t)
	env.asAdmin(t)
	now := entities.FromTime(env.clock.Now())

	later := now + 3_600_000
	soon := now + 60_000
	past := now - 1
	exactlyNow := now

	_, err := env.store.AddBook(BookInput{Title: "Later", Author: "A", ReleaseAt: &later})
	require.NoError(t, err)
	_, err = env.store.AddBook(BookInput{Title: "Released", Author: "A", ReleaseAt: &past})
	require.NoError(t, err)
	_, err = env.store.AddBook(BookInput{Title: "Soon", Author: "A", ReleaseAt: &soon})
	require.NoError(t, err)
	_, err = env.store.AddBook(BookInput{Title: "Now", Author: "A", ReleaseAt: &exactlyNow})
	require.NoError(t, err)
	_, err = env.store.AddBook(BookInput{Title: "Undated", Author: "A"})
	require.NoError(t, err)

	upcoming := env.store.ListUpcomingBooks()
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Soon", upcoming[0].Title)
	assert.Equal(t, "Later", upcoming[1].Title)

	env.clock.Advance(2 * time.Minute)
	upcoming = env.store.ListUpcomingBooks()
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Later", upcoming[0].Title)
}

func TestStore_AddOrUpdateReview(t *testing.T) {
	setup := func(t *testing.T) (*testEnv, entities.Book) {
		env := newTestEnv(t)
		env.asAdmin(t)
		book, err := env.store.AddBook(BookInput{Title: "Dune", Author: "Herbert"})
		require.NoError(t, err)
		env.store.Logout()
		return env, book
	}

	t.Run("requires a session", func(t *testing.T) {
		env, book := setup(t)
		_, err := env.store.AddOrUpdateReview(book.ID, 5, "great")
		assert.ErrorIs(t, err, ErrLoginRequired)
		assert.ErrorIs(t, err, entities.ErrAuthentication)
	})

	t.Run("accepts only ratings 1..5", func(t *testing.T) {
		env, book := setup(t)
		_, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)

		for _, r := range []int{-1, 0, 6, 100} {
			_, err := env.store.AddOrUpdateReview(book.ID, r, "x")
			assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", r)
		}
		assert.Empty(t, env.store.ListReviewsByBook(book.ID))

		for r := 1; r <= 5; r++ {
			_, err := env.store.AddOrUpdateReview(book.ID, r, "x")
			assert.NoError(t, err, "rating %d", r)
		}
	})

	t.Run("rejects unknown books", func(t *testing.T) {
		env, _ := setup(t)
		_, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)

		_, err = env.store.AddOrUpdateReview("b_missing", 4, "x")
		assert.ErrorIs(t, err, ErrBookNotFound)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("second call overwrites the first", func(t *testing.T) {
		env, book := setup(t)
		bob, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)

		first, err := env.store.AddOrUpdateReview(book.ID, 2, "meh")
		require.NoError(t, err)
		env.clock.Advance(time.Minute)
		second, err := env.store.AddOrUpdateReview(book.ID, 5, "loved it")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Greater(t, second.CreatedAt, first.CreatedAt)

		reviews := env.store.ListReviewsByBook(book.ID)
		require.Len(t, reviews, 1)
		assert.Equal(t, 5, reviews[0].Rating)
		assert.Equal(t, "loved it", reviews[0].Text)
		require.NotNil(t, reviews[0].User)
		assert.Equal(t, bob.ID, reviews[0].User.ID)

		mine, ok := env.store.ReviewFor(book.ID)
		require.True(t, ok)
		assert.Equal(t, second, mine)

		assert.Equal(t, events.Success("Review saved"), env.toasts()[len(env.toasts())-1])
	})

	t.Run("each user keeps their own review", func(t *testing.T) {
		env, book := setup(t)
		_, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)
		_, err = env.store.AddOrUpdateReview(book.ID, 3, "ok")
		require.NoError(t, err)

		env.clock.Advance(time.Second)
		_, err = env.store.Register("Cat", "cat@example.com", "pw")
		require.NoError(t, err)
		_, err = env.store.AddOrUpdateReview(book.ID, 4, "good")
		require.NoError(t, err)

		reviews := env.store.ListReviewsByBook(book.ID)
		require.Len(t, reviews, 2)
		assert.Equal(t, "Cat", reviews[0].User.Name)
		assert.Equal(t, "Bob", reviews[1].User.Name)
	})
}

func TestStore_ListReviewsByBook_UnresolvedAuthor(t *testing.T) {
	gw := &memoryGateway{snap: &entities.Snapshot{
		Users:   []entities.User{},
		Books:   []entities.Book{{ID: "b_1", Title: "Dune", Author: "Herbert"}},
		Reviews: []entities.Review{{ID: "r_1", BookID: "b_1", UserID: "u_gone", Rating: 3}},
	}}
	s := New(gw, events.NewRelay(), WithPersister(&recordingPersister{}))
	require.NoError(t, s.Initialize(context.Background()))

	reviews := s.ListReviewsByBook("b_1")
	require.Len(t, reviews, 1)
	assert.Nil(t, reviews[0].User)

	all := s.ListAllReviews()
	require.Len(t, all, 1)
	assert.Nil(t, all[0].User)
	require.NotNil(t, all[0].Book)
	assert.Equal(t, "Dune", all[0].Book.Title)
}

func TestStore_ListAllReviews(t *testing.T) {
	env := newTestEnv(t)
	env.asAdmin(t)
	dune, err := env.store.AddBook(BookInput{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	emma, err := env.store.AddBook(BookInput{Title: "Emma", Author: "Austen"})
	require.NoError(t, err)

	_, err = env.store.AddOrUpdateReview(dune.ID, 5, "great")
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	_, err = env.store.AddOrUpdateReview(emma.ID, 1, "boring")
	require.NoError(t, err)

	all := env.store.ListAllReviews()
	require.Len(t, all, 2)
	assert.Equal(t, "Emma", all[0].Book.Title)
	assert.Equal(t, "Dune", all[1].Book.Title)
	assert.Equal(t, "Admin", all[0].User.Name)
}

func TestStore_DeleteReview(t *testing.T) {
	setup := func(t *testing.T) (*testEnv, entities.Review) {
		env := newTestEnv(t)
		env.asAdmin(t)
		book, err := env.store.AddBook(BookInput{Title: "Dune", Author: "Herbert"})
		require.NoError(t, err)
		review, err := env.store.AddOrUpdateReview(book.ID, 4, "good")
		require.NoError(t, err)
		env.events = nil
		return env, review
	}

	t.Run("admin deletes a review", func(t *testing.T) {
		env, review := setup(t)
		before := env.persister.count()

		require.NoError(t, env.store.DeleteReview(review.ID))

		assert.Empty(t, env.store.ListReviewsByBook(review.BookID))
		assert.Equal(t, before+1, env.persister.count())
		assert.Equal(t, []events.Toast{events.Success("Review deleted")}, env.toasts())
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		env, review := setup(t)
		before := env.persister.count()

		require.NoError(t, env.store.DeleteReview("r_missing"))

		assert.Len(t, env.store.ListReviewsByBook(review.BookID), 1)
		assert.Equal(t, before, env.persister.count())
		assert.Empty(t, env.events)
	})

	t.Run("non-admin cannot delete", func(t *testing.T) {
		env, review := setup(t)
		_, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)

		err = env.store.DeleteReview(review.ID)
		assert.ErrorIs(t, err, ErrAdminRequired)
		assert.Len(t, env.store.ListReviewsByBook(review.BookID), 1)
	})
}

func TestStore_Register(t *testing.T) {
	t.Run("creates a user and signs in", func(t *testing.T) {
		env := newTestEnv(t)

		user, err := env.store.Register(" Bob ", "  Bob@Example.com ", "secret")
		require.NoError(t, err)

		assert.Equal(t, "Bob", user.Name)
		assert.Equal(t, "bob@example.com", user.Email)
		assert.Equal(t, entities.RoleUser, user.Role)

		current, ok := env.store.GetCurrentUser()
		require.True(t, ok)
		assert.Equal(t, user, current)
		assert.False(t, env.store.IsAdmin())

		require.Len(t, env.events, 2)
		assert.Equal(t, events.Login{User: user.Public()}, env.events[0])
		assert.Equal(t, events.Success("Welcome, Bob"), env.events[1])
		require.NotNil(t, env.persister.last().CurrentUserID)
		assert.Equal(t, user.ID, *env.persister.last().CurrentUserID)
	})

	t.Run("emails differing by case or whitespace conflict", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)

		_, err = env.store.Register("Bobby", " BOB@example.COM ", "other")
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.ErrorIs(t, err, entities.ErrConflict)
		assert.Len(t, env.store.Snapshot().Users, 1)
	})

	t.Run("requires name, email and password", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.store.Register("", "a@example.com", "pw")
		assert.ErrorIs(t, err, ErrNameRequired)
		_, err = env.store.Register("A", "  ", "pw")
		assert.ErrorIs(t, err, ErrEmailRequired)
		_, err = env.store.Register("A", "a@example.com", "")
		assert.ErrorIs(t, err, ErrPasswordRequired)
		assert.Empty(t, env.store.Snapshot().Users)
	})
}

func TestStore_Login(t *testing.T) {
	setup := func(t *testing.T) (*testEnv, entities.User) {
		env := newTestEnv(t)
		user, err := env.store.Register("Bob", "bob@example.com", "Secret")
		require.NoError(t, err)
		env.store.Logout()
		env.events = nil
		return env, user
	}

	t.Run("matches normalized email and exact password", func(t *testing.T) {
		env, user := setup(t)

		got, err := env.store.Login(" BOB@example.com", "Secret")
		require.NoError(t, err)
		assert.Equal(t, user, got)

		current, ok := env.store.GetCurrentUser()
		require.True(t, ok)
		assert.Equal(t, user.ID, current.ID)
		assert.Equal(t, events.Success("Signed in as Bob"), env.events[1])
	})

	cases := map[string][2]string{
		"wrong password":    {"bob@example.com", "secret"},
		"unknown email":     {"eve@example.com", "Secret"},
		"empty credentials": {"", ""},
	}
	for name, c := range cases {
		t.Run("fails on "+name, func(t *testing.T) {
			env, _ := setup(t)
			before := env.persister.count()

			_, err := env.store.Login(c[0], c[1])
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.ErrorIs(t, err, entities.ErrAuthentication)

			_, ok := env.store.GetCurrentUser()
			assert.False(t, ok)
			assert.Equal(t, before, env.persister.count())
		})
	}

	t.Run("failure keeps an existing session", func(t *testing.T) {
		env, user := setup(t)
		_, err := env.store.Login("bob@example.com", "Secret")
		require.NoError(t, err)

		_, err = env.store.Login("bob@example.com", "nope")
		require.Error(t, err)

		current, ok := env.store.GetCurrentUser()
		require.True(t, ok)
		assert.Equal(t, user.ID, current.ID)
	})

	t.Run("duplicate emails match on password", func(t *testing.T) {
		env := newTestEnv(t)
		env.gateway.snap = &entities.Snapshot{
			Users: []entities.User{
				{ID: "u_first", Name: "First", Email: "dup@example.com", Password: "one", Role: entities.RoleUser},
				{ID: "u_second", Name: "Second", Email: "dup@example.com", Password: "two", Role: entities.RoleUser},
			},
			Books:   []entities.Book{},
			Reviews: []entities.Review{},
		}
		require.NoError(t, env.store.Initialize(context.Background()))

		got, err := env.store.Login("dup@example.com", "two")
		require.NoError(t, err)
		assert.Equal(t, "u_second", got.ID)

		current, ok := env.store.GetCurrentUser()
		require.True(t, ok)
		assert.Equal(t, "u_second", current.ID)
	})
}

func TestStore_Logout(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.Register("Bob", "bob@example.com", "pw")
	require.NoError(t, err)
	env.events = nil

	env.store.Logout()

	_, ok := env.store.GetCurrentUser()
	assert.False(t, ok)
	assert.Nil(t, env.persister.last().CurrentUserID)
	assert.Equal(t, []events.Event{events.Logout{}, events.Info("Signed out")}, env.events)

	// Logging out twice is fine.
	env.store.Logout()
	_, ok = env.store.GetCurrentUser()
	assert.False(t, ok)
}

func TestStore_EnsureAdmin(t *testing.T) {
	env := newTestEnv(t)

	admin, created, err := env.store.EnsureAdmin("", "Admin@Example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Admin", admin.Name)
	assert.Equal(t, entities.RoleAdmin, admin.Role)
	_, ok := env.store.GetCurrentUser()
	assert.False(t, ok, "bootstrap must not sign in")

	again, created, err := env.store.EnsureAdmin("Other", "admin@example.com", "x")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	_, err = env.store.Register("Bob", "bob@example.com", "pw")
	require.NoError(t, err)
	_, _, err = env.store.EnsureAdmin("Bob", "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStore_FlushAndShutdown(t *testing.T) {
	t.Run("flush writes the current state", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.store.Register("Bob", "bob@example.com", "pw")
		require.NoError(t, err)

		require.NoError(t, env.store.Flush(context.Background()))

		saved, saves := env.gateway.saved()
		assert.Equal(t, 1, saves)
		assert.Equal(t, env.store.Snapshot(), saved)
	})

	t.Run("flush reports failures", func(t *testing.T) {
		env := newTestEnv(t)
		env.gateway.saveErr = errors.New("read-only filesystem")

		err := env.store.Flush(context.Background())
		assert.ErrorIs(t, err, entities.ErrPersistence)
		assert.Contains(t, err.Error(), "read-only filesystem")
	})

	t.Run("shutdown flushes", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.store.Shutdown(context.Background()))
		_, saves := env.gateway.saved()
		assert.Equal(t, 1, saves)
	})
}

func TestStore_ReloadFromGateway(t *testing.T) {
	t.Run("admin reloads persisted state", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.asAdmin(t)

		env.gateway.snap = &entities.Snapshot{
			Users:         []entities.User{admin},
			Books:         []entities.Book{{ID: "b_9", Title: "Seeded", Author: "X"}},
			Reviews:       []entities.Review{},
			CurrentUserID: strPtr(admin.ID),
		}

		require.NoError(t, env.store.ReloadFromGateway(context.Background()))
		books := env.store.ListBooks()
		require.Len(t, books, 1)
		assert.Equal(t, "Seeded", books[0].Title)
		assert.Equal(t, []events.Toast{events.Success("Reloaded from snapshot")}, env.toasts())
	})

	t.Run("missing snapshot emits an error toast", func(t *testing.T) {
		env := newTestEnv(t)
		env.asAdmin(t)
		env.gateway.snap = nil

		err := env.store.ReloadFromGateway(context.Background())
		assert.ErrorIs(t, err, entities.ErrSnapshotNotFound)
		assert.Equal(t, []events.Toast{events.Error("Snapshot not found or invalid")}, env.toasts())
	})

	t.Run("requires admin", func(t *testing.T) {
		env := newTestEnv(t)
		assert.ErrorIs(t, env.store.ReloadFromGateway(context.Background()), ErrAdminRequired)
	})
}

func TestStore_SelectorsReturnCopies(t *testing.T) {
	env := newTestEnv(t)
	env.asAdmin(t)
	release := entities.FromTime(env.clock.Now().Add(time.Hour))
	book, err := env.store.AddBook(BookInput{Title: "Dune", Author: "Herbert", ReleaseAt: &release})
	require.NoError(t, err)

	got, ok := env.store.GetBook(book.ID)
	require.True(t, ok)
	*got.ReleaseAt = 0
	got.Title = "changed"

	again, _ := env.store.GetBook(book.ID)
	assert.Equal(t, "Dune", again.Title)
	assert.Equal(t, release, *again.ReleaseAt)

	_, ok = env.store.GetBook("b_missing")
	assert.False(t, ok)
}

func TestNewID(t *testing.T) {
	a := NewID(BookIDPrefix)
	b := NewID(BookIDPrefix)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^b_[0-9a-f]{32}$`, a)
}

func strPtr(s string) *string { return &s }
