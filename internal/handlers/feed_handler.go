package handlers

import (
	"net/http"

	"github.com/connectly/backend/internal/metrics"
	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/repositories"
	"github.com/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed           services.FeedService
	userRepository repositories.UserRepository
	metrics        *metrics.Metrics
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed services.FeedService, userRepo repositories.UserRepository, m *metrics.Metrics) *FeedHandler {
	return &FeedHandler{
		feed:           feed,
		userRepository: userRepo,
		metrics:        m,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a feed post with basic author info
type EnrichedPost struct {
	models.Post
	Author models.UserBasic `json:"author"`
}

// GetFeed returns one page of the reverse-chronological feed for the current
// user. The cursor query parameter resumes from a previous page.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, err := h.feed.Feed(c.Request().Context(), getPrincipal(c), c.QueryParam("cursor"))
	if err != nil {
		return httpError(err)
	}

	// Build author info for the posts on this page.
	userMap := make(map[uint]models.UserBasic)
	for _, p := range page.Results {
		if _, ok := userMap[p.AuthorID]; ok {
			continue
		}
		user, err := h.userRepository.GetUserByID(p.AuthorID)
		if err == nil {
			userMap[p.AuthorID] = user.ToBasic()
		}
	}

	enriched := make([]EnrichedPost, len(page.Results))
	for i, p := range page.Results {
		enriched[i] = EnrichedPost{
			Post:   p,
			Author: userMap[p.AuthorID],
		}
	}

	if h.metrics != nil {
		h.metrics.FeedRequests.WithLabelValues(c.Path()).Inc()
	}
	return c.JSON(http.StatusOK, echo.Map{"results": enriched, "next": page.Next})
}
