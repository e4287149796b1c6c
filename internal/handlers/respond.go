// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"menuboard/internal/csvimport"
	"menuboard/internal/models"
)

// maxJSONBody caps the size of a JSON request body.
const maxJSONBody = 1 << 20

var validate = newValidator()

// newValidator reports field names by their JSON tag so that error
// payloads match the request body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors maps request fields to the rule each one broke.
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, rule := range f {
		parts = append(parts, field+": "+rule)
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return models.Invalid("", "malformed JSON body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			out := make(fieldErrors, len(ves))
			for _, fe := range ves {
				out[fe.Field()] = ruleMessage(fe)
			}
			return out
		}
		return fmt.Errorf("validate request: %w", err)
	}
	return nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	}
	return "failed " + fe.Tag()
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Error  string            `json:"error"`
	Field  string            `json:"field,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps a domain error onto a status code. Persistence and other
// unexpected failures are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve     *models.ValidationError
		fields fieldErrors
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.As(err, &fields):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fields})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidRange), errors.Is(err, models.ErrUnreadablePayload):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, csvimport.ErrTooLarge), errors.As(err, &tooBig):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
	case errors.Is(err, context.DeadlineExceeded):
		slog.Error("request timed out", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "timed out loading menus"})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func parseDate(field, s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, models.Invalid(field, "must be a date (YYYY-MM-DD)")
	}
	return d, nil
}

// optionalDate parses s, returning the zero date when s is empty.
func optionalDate(field, s string) (civil.Date, error) {
	if strings.TrimSpace(s) == "" {
		return civil.Date{}, nil
	}
	return parseDate(field, s)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("menu %q: %w", s, models.ErrNotFound)
	}
	return id, nil
}
