package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/devhub/devconnect/internal/middleware"
	"github.com/devhub/devconnect/internal/models"
	"github.com/devhub/devconnect/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PostHandler struct {
	Posts *repo.PostRepo
	Users *repo.UserRepo
}

// Create stores a post carrying a copy of the caller's current name and avatar.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var input struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Text == "" {
		JSONValidationError(w, []FieldError{{Msg: "Text is required", Param: "text"}})
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		serverError(w, "create post: lookup user", err)
		return
	}

	post, err := h.Posts.Create(r.Context(), userID, input.Text, user.Name, user.Avatar)
	if err != nil {
		serverError(w, "create post", err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// List returns all posts, newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.List(r.Context())
	if err != nil {
		serverError(w, "list posts", err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Post not found", http.StatusNotFound)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Post not found", http.StatusNotFound)
			return
		}
		serverError(w, "get post", err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post. Existence is checked before ownership so an absent
// post answers 404 rather than being dereferenced, and only the owner may delete.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Post not found", http.StatusNotFound)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Post not found", http.StatusNotFound)
			return
		}
		serverError(w, "delete post: load", err)
		return
	}

	if post.UserID != userID {
		JSONError(w, "User not authorized", http.StatusUnauthorized)
		return
	}

	if err := h.Posts.Delete(r.Context(), id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		serverError(w, "delete post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "Post removed"})
}

// Like prepends the caller's like. Liking twice is rejected, never duplicated.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	post, ok := h.mutatePost(w, r, "like post", func(p *models.Post) (int, string) {
		for _, like := range p.Likes {
			if like.UserID == userID {
				return http.StatusBadRequest, "Post already liked"
			}
		}
		p.Likes = append([]models.Like{{UserID: userID}}, p.Likes...)
		return 0, ""
	})
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, post.Likes)
}

// Unlike removes exactly the caller's like entry.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	post, ok := h.mutatePost(w, r, "unlike post", func(p *models.Post) (int, string) {
		for i, like := range p.Likes {
			if like.UserID == userID {
				p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
				return 0, ""
			}
		}
		return http.StatusBadRequest, "Post has not yet been liked"
	})
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, post.Likes)
}

// AddComment prepends a comment with a copy of the caller's name and avatar.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var input struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Text == "" {
		JSONValidationError(w, []FieldError{{Msg: "Text is required", Param: "text"}})
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		serverError(w, "add comment: lookup user", err)
		return
	}

	comment := models.Comment{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   input.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   time.Now().UTC(),
	}

	post, ok := h.mutatePost(w, r, "add comment", func(p *models.Post) (int, string) {
		p.Comments = append([]models.Comment{comment}, p.Comments...)
		return 0, ""
	})
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, post.Comments)
}

// DeleteComment removes the targeted comment. Only its author may delete it,
// and the removal index is located by the comment's own id.
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	commentID := chi.URLParam(r, "comment_id")

	post, ok := h.mutatePost(w, r, "delete comment", func(p *models.Post) (int, string) {
		for i, c := range p.Comments {
			if c.ID != commentID {
				continue
			}
			if c.UserID != userID {
				return http.StatusUnauthorized, "User not authorized"
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return 0, ""
		}
		return http.StatusNotFound, "Comment does not exist"
	})
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, post.Comments)
}

// mutatePost runs a read-modify-write on the post in the path under the
// optimistic version guard, retrying once on a lost race. mutate may abort by
// returning a non-zero status with a message; ok reports whether the caller
// should write the success response (a false return means the response was
// already written here).
func (h *PostHandler) mutatePost(w http.ResponseWriter, r *http.Request, op string, mutate func(*models.Post) (int, string)) (*models.Post, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Post not found", http.StatusNotFound)
		return nil, false
	}

	post, status, msg, err := h.applyPostMutation(r.Context(), id, mutate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Post not found", http.StatusNotFound)
			return nil, false
		}
		serverError(w, op, err)
		return nil, false
	}
	if status != 0 {
		JSONError(w, msg, status)
		return nil, false
	}

	return post, true
}

func (h *PostHandler) applyPostMutation(ctx context.Context, id int, mutate func(*models.Post) (int, string)) (*models.Post, int, string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		post, err := h.Posts.GetByID(ctx, id)
		if err != nil {
			return nil, 0, "", err
		}

		if status, msg := mutate(post); status != 0 {
			return nil, status, msg, nil
		}

		err = h.Posts.Save(ctx, post)
		if err == nil {
			return post, 0, "", nil
		}
		if !errors.Is(err, repo.ErrVersionConflict) {
			return nil, 0, "", err
		}
	}
	return nil, http.StatusConflict, "Conflict, please retry", nil
}
