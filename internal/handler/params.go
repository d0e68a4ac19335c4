package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/auth"
)

const dateLayout = "2006-01-02"

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the {id} path value. A malformed id cannot name an existing
// resource, so it answers with notFound.
func pathID(w http.ResponseWriter, r *http.Request, notFound *AppError) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, notFound, nil)
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func queryDate(r *http.Request, key string) (*time.Time, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// pageParams reads limit and offset, appending field errors for bad values.
func pageParams(r *http.Request, errs []FieldError) (int, int, []FieldError) {
	limit, ok := queryInt(r, "limit", 50)
	if !ok || limit < 1 || limit > 200 {
		errs = append(errs, FieldError{Field: "limit", Message: "must be between 1 and 200"})
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok || offset < 0 {
		errs = append(errs, FieldError{Field: "offset", Message: "must not be negative"})
	}
	return limit, offset, errs
}
