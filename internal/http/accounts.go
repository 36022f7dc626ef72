package http

import (
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/metrics"
	"github.com/mrlokans/bookreviews/internal/store"
)

// AuthController handles registration and the store-wide session.
type AuthController struct {
	store   AccountStore
	limiter *auth.RateLimiter
}

// NewAuthController creates the controller. limiter may be nil to disable
// login rate limiting.
func NewAuthController(store AccountStore, limiter *auth.RateLimiter) *AuthController {
	return &AuthController{store: store, limiter: limiter}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (controller *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := controller.store.Register(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "register")
		return
	}
	respondCreated(c, gin.H{"user": user.Public()})
}

func (controller *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ip := c.ClientIP()
	email := entities.NormalizeEmail(req.Email)

	if controller.limiter != nil {
		if allowed, retryAfter := controller.limiter.Allow(ip, email); !allowed {
			log.Printf("[AUTH] Login rate limited for %s from %s", email, ip)
			metrics.LoginAttemptsTotal.WithLabelValues("limited").Inc()
			respondRateLimited(c, retryAfter.Seconds())
			return
		}
	}

	user, err := controller.store.Login(req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		if controller.limiter != nil {
			if locked, lockout := controller.limiter.RecordFailure(ip, email); locked {
				log.Printf("[AUTH] Too many failed logins for %s from %s", email, ip)
				respondRateLimited(c, lockout.Seconds())
				return
			}
		}
		respondError(c, err, "login")
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	if controller.limiter != nil {
		controller.limiter.RecordSuccess(ip, email)
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

func (controller *AuthController) Logout(c *gin.Context) {
	controller.store.Logout()
	respondSuccess(c, "signed out")
}

func (controller *AuthController) Me(c *gin.Context) {
	user, ok := controller.store.GetCurrentUser()
	if !ok {
		respondError(c, store.ErrLoginRequired, "me")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

func respondRateLimited(c *gin.Context, seconds float64) {
	c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(seconds))))
	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error: "too many login attempts, try again later",
		Code:  CodeRateLimited,
	})
}
