package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress/inkpress/internal/handler/dto"
	"github.com/inkpress/inkpress/internal/middleware"
	"github.com/inkpress/inkpress/internal/model"
	"github.com/inkpress/inkpress/internal/service"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	svc    *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, logger: logger}
}

// List handles GET /posts?sort=.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	sort := model.ParseSortKey(r.URL.Query().Get("sort"))

	posts, err := h.svc.List(r.Context(), sort)
	if err != nil {
		h.handlePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostListResponse{Posts: posts})
}

// Mine handles GET /posts/mine?sort=.
func (h *PostHandler) Mine(w http.ResponseWriter, r *http.Request) {
	sort := model.ParseSortKey(r.URL.Query().Get("sort"))

	posts, err := h.svc.ListMine(r.Context(), sort)
	if err != nil {
		h.handlePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostListResponse{Posts: posts})
}

// Get handles GET /posts/{idOrSlug}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.Get(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		h.handlePostError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostResponse{Post: post})
}

// Create handles POST /posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.CreatePostInput{
		Title:    req.Title,
		Topic:    req.Topic,
		Excerpt:  req.Excerpt,
		ReadTime: req.ReadTime,
		Content:  req.Content,
	}

	post, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.handlePostError(w, r, err)
		return
	}

	h.logger.Info("post_created",
		"post_id", post.ID,
		"slug", post.Slug,
		"author_id", post.AuthorID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.PostResponse{Post: post})
}

// Update handles PUT /posts/{idOrSlug}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := service.UpdatePostInput{
		Title:    req.Title,
		Topic:    req.Topic,
		Excerpt:  req.Excerpt,
		ReadTime: req.ReadTime,
		Content:  req.Content,
	}

	post, err := h.svc.Update(r.Context(), chi.URLParam(r, "idOrSlug"), input)
	if err != nil {
		h.handlePostError(w, r, err)
		return
	}

	h.logger.Info("post_updated",
		"post_id", post.ID,
		"slug", post.Slug,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.PostResponse{Post: post})
}

// Delete handles DELETE /posts/{idOrSlug}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	if err := h.svc.Delete(r.Context(), idOrSlug); err != nil {
		h.handlePostError(w, r, err)
		return
	}

	h.logger.Info("post_deleted",
		"ref", idOrSlug,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Post deleted"})
}

// handlePostError maps post service errors to HTTP responses.
func (h *PostHandler) handlePostError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingPostFields):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotAuthenticated):
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrNotPostAuthor):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPostNotFound):
		writeMessage(w, http.StatusNotFound, "Post not found")
	default:
		h.logger.Error("post error",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
	}
}
