package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/connectly/backend/internal/metrics"
	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/repositories"
	"github.com/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow and relationship listing HTTP requests
type FollowHandler struct {
	relationships  services.RelationshipService
	userRepository repositories.UserRepository
	metrics        *metrics.Metrics
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(relationships services.RelationshipService, userRepo repositories.UserRepository, m *metrics.Metrics) *FollowHandler {
	return &FollowHandler{
		relationships:  relationships,
		userRepository: userRepo,
		metrics:        m,
	}
}

// RegisterSocialRoutes registers follow-related routes
func (h *FollowHandler) RegisterSocialRoutes(g *echo.Group) {
	g.POST("/follow/:id", h.FollowUser)
	g.DELETE("/unfollow/:id", h.UnfollowUser)
	g.GET("/followers", h.GetFollowers)
	g.GET("/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.relationships.Follow(getPrincipal(c), uint(targetID))
	if err != nil {
		return httpError(err)
	}

	if result.Status == services.AlreadyFollowing {
		return c.JSON(http.StatusOK, echo.Map{"message": "You are already following this user."})
	}

	if h.metrics != nil {
		h.metrics.FollowRequests.WithLabelValues(c.Path()).Inc()
	}
	return c.JSON(http.StatusCreated, result.Edge)
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.relationships.Unfollow(getPrincipal(c), uint(targetID))
	if err != nil {
		return httpError(err)
	}

	if result.Status == services.NotFollowing {
		return echo.NewHTTPError(http.StatusBadRequest, "You are not following this user")
	}

	if h.metrics != nil {
		h.metrics.UnfollowRequests.WithLabelValues(c.Path()).Inc()
	}
	return c.NoContent(http.StatusNoContent)
}

// FollowerEntry is a follower listing item with basic user info
type FollowerEntry struct {
	Follower  models.UserBasic `json:"follower"`
	CreatedAt time.Time        `json:"created_at"`
}

// FollowingEntry is a following listing item with basic user info
type FollowingEntry struct {
	Following models.UserBasic `json:"following"`
	CreatedAt time.Time        `json:"created_at"`
}

// GetFollowers lists the users following the current user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	page, err := h.relationships.Followers(getPrincipal(c), c.QueryParam("cursor"))
	if err != nil {
		return httpError(err)
	}

	userMap := h.buildUserMap(page.Results)
	entries := make([]FollowerEntry, len(page.Results))
	for i, edge := range page.Results {
		entries[i] = FollowerEntry{
			Follower:  userMap[edge.FollowerID],
			CreatedAt: edge.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"results": entries, "next": page.Next})
}

// GetFollowing lists the users the current user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	page, err := h.relationships.Following(getPrincipal(c), c.QueryParam("cursor"))
	if err != nil {
		return httpError(err)
	}

	userMap := h.buildUserMap(page.Results)
	entries := make([]FollowingEntry, len(page.Results))
	for i, edge := range page.Results {
		entries[i] = FollowingEntry{
			Following: userMap[edge.FollowingID],
			CreatedAt: edge.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"results": entries, "next": page.Next})
}

// buildUserMap loads basic user info for every user referenced by the edges
// on the page. Users deleted since the edge was created come back zero-valued.
func (h *FollowHandler) buildUserMap(edges []models.Follow) map[uint]models.UserBasic {
	userMap := make(map[uint]models.UserBasic)
	for _, edge := range edges {
		for _, id := range []uint{edge.FollowerID, edge.FollowingID} {
			if _, ok := userMap[id]; ok {
				continue
			}
			user, err := h.userRepository.GetUserByID(id)
			if err == nil {
				userMap[id] = user.ToBasic()
			}
		}
	}
	return userMap
}
