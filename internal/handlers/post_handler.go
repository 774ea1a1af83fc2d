package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/connectly/backend/internal/metrics"
	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"github.com/connectly/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// postPageSize is the fixed number of posts per author listing page.
const postPageSize = 10

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	metrics        *metrics.Metrics
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, m *metrics.Metrics) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		metrics:        m,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("", h.CreatePost)
	g.GET("/:id", h.GetPost)
	g.DELETE("/:id", h.DeletePost)
	g.GET("/user/:id", h.GetUserPosts)
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	principal := getPrincipal(c)
	if !principal.IsAuthenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID: principal.ID,
		Content:  req.Content,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.metrics != nil {
		h.metrics.PostsCreated.WithLabelValues(c.Path()).Inc()
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the current user
func (h *PostHandler) DeletePost(c echo.Context) error {
	principal := getPrincipal(c)
	if !principal.IsAuthenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if post.AuthorID != principal.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), post.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts lists a user's posts, newest first, with cursor pagination
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	after, err := pagination.DecodeParam(c.QueryParam("cursor"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pagination cursor")
	}

	posts, hasMore, err := h.postRepository.ListByAuthor(c.Request().Context(), uint(authorID), after, postPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if posts == nil {
		posts = []models.Post{}
	}

	var next *string
	if hasMore && len(posts) > 0 {
		last := posts[len(posts)-1]
		token := pagination.Encode(pagination.Position{CreatedAt: last.CreatedAt, ID: last.ID.Hex()})
		next = &token
	}

	return c.JSON(http.StatusOK, echo.Map{"results": posts, "next": next})
}
