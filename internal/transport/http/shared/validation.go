package shared

import (
	"net/http"
	"strings"

	"hrmportal/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects payload issues before a handler forwards anything
// upstream. The portal only checks structural requirements; business
// rules stay with the upstream API.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.issues = append(v.issues, ValidationIssue{Field: field, Reason: "is required"})
	}
}

func (v *Validator) HasIssues() bool {
	return len(v.issues) > 0
}

// Reject writes a 400 with the collected issues and reports whether it
// did so.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.WriteJSON(w, http.StatusBadRequest, api.Envelope{
		Success:   false,
		Error:     &api.Error{Code: "validation_error", Message: "payload validation failed"},
		Message:   "payload validation failed",
		Data:      map[string]any{"fields": v.issues},
		RequestID: requestID,
	})
	return true
}
