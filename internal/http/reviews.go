package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/store"
)

type ReviewsController struct {
	store ReviewStore
}

func NewReviewsController(store ReviewStore) *ReviewsController {
	return &ReviewsController{store: store}
}

// ReviewRequest is the body of PUT /api/books/:id/review.
type ReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (controller *ReviewsController) ListByBook(c *gin.Context) {
	bookID := c.Param("id")
	if _, ok := controller.store.GetBook(bookID); !ok {
		respondNotFound(c, "book")
		return
	}

	reviews := controller.store.ListReviewsByBook(bookID)
	c.IndentedJSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// MyReview returns the signed-in user's review of a book, used to prefill
// the edit form.
func (controller *ReviewsController) MyReview(c *gin.Context) {
	if _, ok := controller.store.GetCurrentUser(); !ok {
		respondError(c, store.ErrLoginRequired, "my review")
		return
	}

	review, ok := controller.store.ReviewFor(c.Param("id"))
	if !ok {
		respondNotFound(c, "review")
		return
	}
	c.IndentedJSON(http.StatusOK, review)
}

func (controller *ReviewsController) Upsert(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	review, err := controller.store.AddOrUpdateReview(c.Param("id"), req.Rating, req.Text)
	if err != nil {
		respondError(c, err, "save review")
		return
	}
	c.IndentedJSON(http.StatusOK, review)
}

// Delete removes a review. Deleting an unknown id succeeds.
func (controller *ReviewsController) Delete(c *gin.Context) {
	if err := controller.store.DeleteReview(c.Param("id")); err != nil {
		respondError(c, err, "delete review")
		return
	}
	respondSuccess(c, "review deleted")
}
