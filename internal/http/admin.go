package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/sentiment"
	"github.com/mrlokans/bookreviews/internal/store"
)

// ExcerptLength is the maximum length of review text shown in insights.
const ExcerptLength = 120

type AdminController struct {
	store AdminStore
}

func NewAdminController(store AdminStore) *AdminController {
	return &AdminController{store: store}
}

// Insight is one review as shown on the admin panel.
type Insight struct {
	Review    entities.Review      `json:"review"`
	User      *entities.PublicUser `json:"user"`
	Book      *entities.Book       `json:"book"`
	Sentiment sentiment.Result     `json:"sentiment"`
	Excerpt   string               `json:"excerpt"`
}

// InsightsResponse is the body of GET /api/admin/insights.
type InsightsResponse struct {
	Insights []Insight         `json:"insights"`
	Summary  sentiment.Summary `json:"summary"`
}

// RequireAdmin aborts with 401 when nobody is signed in and 403 when the
// session is not an admin.
func RequireAdmin(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessions.GetCurrentUser(); !ok {
			respondError(c, store.ErrLoginRequired, "admin")
			c.Abort()
			return
		}
		if !sessions.IsAdmin() {
			respondError(c, store.ErrAdminRequired, "admin")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (controller *AdminController) Insights(c *gin.Context) {
	reviews := controller.store.ListAllReviews()

	insights := make([]Insight, 0, len(reviews))
	results := make([]sentiment.Result, 0, len(reviews))
	for _, r := range reviews {
		result := sentiment.Analyze(r.Review.Text)
		results = append(results, result)
		insights = append(insights, Insight{
			Review:    r.Review,
			User:      r.User,
			Book:      r.Book,
			Sentiment: result,
			Excerpt:   sentiment.Excerpt(r.Review.Text, ExcerptLength),
		})
	}

	c.IndentedJSON(http.StatusOK, InsightsResponse{
		Insights: insights,
		Summary:  sentiment.Summarize(results),
	})
}

func (controller *AdminController) Reload(c *gin.Context) {
	if err := controller.store.ReloadFromGateway(c.Request.Context()); err != nil {
		respondError(c, err, "reload")
		return
	}
	respondSuccess(c, "reloaded from snapshot")
}

func (controller *AdminController) Flush(c *gin.Context) {
	if err := controller.store.Flush(c.Request.Context()); err != nil {
		respondError(c, err, "flush")
		return
	}
	respondSuccess(c, "snapshot saved")
}
