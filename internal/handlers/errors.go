package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// MsgServerError is the generic body for 500 responses. Internal details stay in the log.
const MsgServerError = "Server error"

// FieldError is one validation failure in the {msg, param} shape of the API contract.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// JSONError sends a JSON error response with a single "msg" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"msg": message})
}

// JSONValidationError sends 400 with the field errors as {"errors": [...]}.
func JSONValidationError(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// serverError logs the failure and answers the normalized JSON 500.
func serverError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "err", err)
	JSONError(w, MsgServerError, http.StatusInternalServerError)
}
