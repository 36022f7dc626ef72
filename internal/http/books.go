package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/store"
)

type BooksController struct {
	store BookStore
	clock func() time.Time
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{
		store: store,
		clock: time.Now,
	}
}

// AddBookRequest is the body of POST /api/books. ReleaseAt is unix
// milliseconds.
type AddBookRequest struct {
	Title       string              `json:"title"`
	Author      string              `json:"author"`
	Description string              `json:"description"`
	ReleaseAt   *entities.Timestamp `json:"releaseAt"`
}

// UpcomingBook is a book together with the time left until its release.
type UpcomingBook struct {
	entities.Book
	Countdown entities.Countdown `json:"countdown"`
}

func (controller *BooksController) ListBooks(c *gin.Context) {
	books := controller.store.ListBooks()
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) ListUpcoming(c *gin.Context) {
	now := entities.FromTime(controller.clock())
	books := controller.store.ListUpcomingBooks()

	upcoming := make([]UpcomingBook, 0, len(books))
	for _, b := range books {
		upcoming = append(upcoming, UpcomingBook{Book: b, Countdown: b.Countdown(now)})
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": upcoming, "count": len(upcoming)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	book, ok := controller.store.GetBook(c.Param("id"))
	if !ok {
		respondNotFound(c, "book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.store.AddBook(store.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		ReleaseAt:   req.ReleaseAt,
	})
	if err != nil {
		respondError(c, err, "add book")
		return
	}
	respondCreated(c, book)
}
