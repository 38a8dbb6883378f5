package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/devhub/devconnect/internal/middleware"
	"github.com/devhub/devconnect/internal/models"
	"github.com/devhub/devconnect/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	Profiles *repo.ProfileRepo
	Users    *repo.UserRepo
	Posts    *repo.PostRepo
}

// Me returns the caller's own profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	profile, err := h.Profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "There is no profile for this user", http.StatusBadRequest)
			return
		}
		serverError(w, "profile me", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Upsert replaces the caller's profile fields or creates the profile on first
// submission. Only fields present in the body overwrite; the social links
// sub-object is rebuilt from whatever link fields arrive.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var input struct {
		Company        string `json:"company"`
		Website        string `json:"website"`
		Location       string `json:"location"`
		Bio            string `json:"bio"`
		Status         string `json:"status"`
		GithubUsername string `json:"githubusername"`
		Skills         string `json:"skills"`
		Youtube        string `json:"youtube"`
		Twitter        string `json:"twitter"`
		Facebook       string `json:"facebook"`
		Linkedin       string `json:"linkedin"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var errs []FieldError
	if input.Status == "" {
		errs = append(errs, FieldError{Msg: "Status is required", Param: "status"})
	}
	if strings.TrimSpace(input.Skills) == "" {
		errs = append(errs, FieldError{Msg: "Skills is required", Param: "skills"})
	}
	if len(errs) > 0 {
		JSONValidationError(w, errs)
		return
	}

	profile, err := h.Profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			serverError(w, "profile upsert: load", err)
			return
		}
		profile = &models.Profile{UserID: userID}
	}

	if input.Company != "" {
		profile.Company = input.Company
	}
	if input.Website != "" {
		profile.Website = input.Website
	}
	if input.Location != "" {
		profile.Location = input.Location
	}
	if input.Bio != "" {
		profile.Bio = input.Bio
	}
	profile.Status = input.Status
	if input.GithubUsername != "" {
		profile.GithubUsername = input.GithubUsername
	}

	skills := []string{}
	for _, s := range strings.Split(input.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	profile.Skills = skills

	profile.Social = models.Social{
		Youtube:  input.Youtube,
		Twitter:  input.Twitter,
		Facebook: input.Facebook,
		Linkedin: input.Linkedin,
	}

	if err := h.Profiles.Upsert(r.Context(), profile); err != nil {
		serverError(w, "profile upsert: save", err)
		return
	}

	// Re-read for the joined user name/avatar.
	saved, err := h.Profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		serverError(w, "profile upsert: reload", err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// List returns every developer profile with the owner's name and avatar.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Profiles.List(r.Context())
	if err != nil {
		serverError(w, "profile list", err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// GetByUserID returns the profile for a user id in the path. A malformed id
// answers the same 400 as an absent profile.
func (h *ProfileHandler) GetByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "user_id"))
	if err != nil {
		JSONError(w, "Profile not found", http.StatusBadRequest)
		return
	}

	profile, err := h.Profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Profile not found", http.StatusBadRequest)
			return
		}
		serverError(w, "profile by user", err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// DeleteAccount removes the caller's posts, profile, and user record, in that
// order so nothing is orphaned if a later step fails.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	if err := h.Posts.DeleteByUserID(r.Context(), userID); err != nil {
		serverError(w, "delete account: posts", err)
		return
	}
	if err := h.Profiles.DeleteByUserID(r.Context(), userID); err != nil {
		serverError(w, "delete account: profile", err)
		return
	}
	if err := h.Users.Delete(r.Context(), userID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		serverError(w, "delete account: user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "User deleted"})
}

// AddExperience prepends a work entry so the list stays most-recent-first.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string `json:"title"`
		Company     string `json:"company"`
		Location    string `json:"location"`
		From        string `json:"from"`
		To          string `json:"to"`
		Current     bool   `json:"current"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var errs []FieldError
	if input.Title == "" {
		errs = append(errs, FieldError{Msg: "Title is required", Param: "title"})
	}
	if input.Company == "" {
		errs = append(errs, FieldError{Msg: "Company is required", Param: "company"})
	}
	if input.From == "" {
		errs = append(errs, FieldError{Msg: "From date is required", Param: "from"})
	}
	if len(errs) > 0 {
		JSONValidationError(w, errs)
		return
	}

	entry := models.Experience{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        input.From,
		To:          input.To,
		Current:     input.Current,
		Description: input.Description,
	}

	h.mutateProfile(w, r, "add experience", func(p *models.Profile) {
		p.Experience = append([]models.Experience{entry}, p.Experience...)
	})
}

// RemoveExperience deletes the entry whose id matches the path. An unknown id
// leaves the list unchanged.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	expID := chi.URLParam(r, "exp_id")

	h.mutateProfile(w, r, "remove experience", func(p *models.Profile) {
		for i, e := range p.Experience {
			if e.ID == expID {
				p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
				break
			}
		}
	})
}

// AddEducation prepends an education entry, most-recent-first.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var input struct {
		School       string `json:"school"`
		Degree       string `json:"degree"`
		FieldOfStudy string `json:"fieldofstudy"`
		From         string `json:"from"`
		To           string `json:"to"`
		Current      bool   `json:"current"`
		Description  string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var errs []FieldError
	if input.School == "" {
		errs = append(errs, FieldError{Msg: "School is required", Param: "school"})
	}
	if input.Degree == "" {
		errs = append(errs, FieldError{Msg: "Degree is required", Param: "degree"})
	}
	if input.FieldOfStudy == "" {
		errs = append(errs, FieldError{Msg: "Field of study is required", Param: "fieldofstudy"})
	}
	if input.From == "" {
		errs = append(errs, FieldError{Msg: "From date is required", Param: "from"})
	}
	if len(errs) > 0 {
		JSONValidationError(w, errs)
		return
	}

	entry := models.Education{
		ID:           uuid.NewString(),
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         input.From,
		To:           input.To,
		Current:      input.Current,
		Description:  input.Description,
	}

	h.mutateProfile(w, r, "add education", func(p *models.Profile) {
		p.Education = append([]models.Education{entry}, p.Education...)
	})
}

// RemoveEducation deletes the entry whose id matches the path.
func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	eduID := chi.URLParam(r, "edu_id")

	h.mutateProfile(w, r, "remove education", func(p *models.Profile) {
		for i, e := range p.Education {
			if e.ID == eduID {
				p.Education = append(p.Education[:i], p.Education[i+1:]...)
				break
			}
		}
	})
}

// mutateProfile runs a read-modify-write on the caller's profile under the
// optimistic version guard, retrying once if a concurrent save wins.
func (h *ProfileHandler) mutateProfile(w http.ResponseWriter, r *http.Request, op string, mutate func(*models.Profile)) {
	userID, _ := middleware.GetUserID(r.Context())

	profile, err := h.applyProfileMutation(r.Context(), userID, mutate)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			JSONError(w, "Profile not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrVersionConflict):
			JSONError(w, "Conflict, please retry", http.StatusConflict)
		default:
			serverError(w, op, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) applyProfileMutation(ctx context.Context, userID int, mutate func(*models.Profile)) (*models.Profile, error) {
	for attempt := 0; attempt < 2; attempt++ {
		profile, err := h.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}

		mutate(profile)

		err = h.Profiles.Save(ctx, profile)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, repo.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, repo.ErrVersionConflict
}
