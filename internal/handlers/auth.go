package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devhub/devconnect/internal/gravatar"
	"github.com/devhub/devconnect/internal/middleware"
	"github.com/devhub/devconnect/internal/repo"
	"github.com/devhub/devconnect/internal/token"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type AuthHandler struct {
	Users  *repo.UserRepo
	Tokens *token.Service
}

// Register creates a user and answers {token}. The email must be unused; the
// avatar is derived from the email so it needs no upload step.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var errs []FieldError
	if input.Name == "" {
		errs = append(errs, FieldError{Msg: "Name is required", Param: "name"})
	}
	if validate.Var(input.Email, "required,email") != nil {
		errs = append(errs, FieldError{Msg: "Please include a valid email address", Param: "email"})
	}
	if len(input.Password) < 4 {
		errs = append(errs, FieldError{Msg: "Please include a password of minimum 4 characters", Param: "password"})
	}
	if len(errs) > 0 {
		JSONValidationError(w, errs)
		return
	}

	if _, err := h.Users.GetByEmail(r.Context(), input.Email); err == nil {
		JSONValidationError(w, []FieldError{{Msg: "User already exists"}})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		serverError(w, "register: lookup email", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, "register: hash password", err)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Name, input.Email, string(hash), gravatar.URL(input.Email))
	if err != nil {
		// The unique index closes the lookup/insert race; a concurrent
		// register of the same email lands here.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			JSONValidationError(w, []FieldError{{Msg: "User already exists"}})
			return
		}
		serverError(w, "register: create user", err)
		return
	}

	signed, err := h.Tokens.Issue(user.ID)
	if err != nil {
		serverError(w, "register: issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// Login answers {token} for a matching email/password pair. Unknown email and
// wrong password produce the same response so accounts cannot be enumerated.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var errs []FieldError
	if validate.Var(input.Email, "required,email") != nil {
		errs = append(errs, FieldError{Msg: "Please include a valid email address", Param: "email"})
	}
	if input.Password == "" {
		errs = append(errs, FieldError{Msg: "Password is required", Param: "password"})
	}
	if len(errs) > 0 {
		JSONValidationError(w, errs)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), input.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONValidationError(w, []FieldError{{Msg: "Invalid Credentials"}})
			return
		}
		serverError(w, "login: lookup email", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		JSONValidationError(w, []FieldError{{Msg: "Invalid Credentials"}})
		return
	}

	signed, err := h.Tokens.Issue(user.ID)
	if err != nil {
		serverError(w, "login: issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// Me returns the caller's user record. The password hash never serializes.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "No token, authorization denied", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "User not found", http.StatusNotFound)
			return
		}
		serverError(w, "me: lookup user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
