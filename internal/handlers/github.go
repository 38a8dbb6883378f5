package handlers

import (
	"errors"
	"net/http"

	"github.com/devhub/devconnect/internal/github"
	"github.com/go-chi/chi/v5"
)

type GithubHandler struct {
	Client *github.Client
}

// Repos proxies the GitHub repository lookup for a username. The upstream
// JSON passes through unmodified; a non-200 upstream answers 404.
func (h *GithubHandler) Repos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	body, err := h.Client.Repos(r.Context(), username)
	if err != nil {
		if errors.Is(err, github.ErrNoProfile) {
			JSONError(w, "No Github profile found", http.StatusNotFound)
			return
		}
		serverError(w, "github repos", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
