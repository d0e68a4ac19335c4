package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/auth"
	"github.com/josh-kwaku/loan-servicing/internal/handler"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/repository"
)

type idempotencyStore interface {
	Lookup(ctx context.Context, key string, userID uuid.UUID) (*repository.IdempotencyRecord, error)
	Claim(ctx context.Context, rec *repository.IdempotencyRecord) (bool, error)
	Complete(ctx context.Context, key string, userID uuid.UUID, status int, body []byte) error
	Release(ctx context.Context, key string, userID uuid.UUID) error
}

const idempotencyTTL = 24 * time.Hour

// Idempotency replays the stored response when a user retries a mutating
// request with the same Idempotency-Key. The key is claimed before the handler
// runs, so a concurrent duplicate is rejected instead of executing twice.
// Server errors release the claim, so the client may retry them.
func Idempotency(store idempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			log := logging.FromContext(r.Context())

			key := r.Header.Get("Idempotency-Key")
			if key == "" || len(key) > 255 {
				handler.RespondAppError(w, handler.ErrMissingIdempotencyKey, nil)
				return
			}

			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidRequest, nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reqHash := computeHash(r.Method, r.URL.Path, body)

			now := time.Now().UTC()
			claimed, err := store.Claim(r.Context(), &repository.IdempotencyRecord{
				Key:         key,
				UserID:      userID,
				RequestHash: reqHash,
				CreatedAt:   now,
				ExpiresAt:   now.Add(idempotencyTTL),
			})
			if err != nil {
				log.Error("idempotency claim failed", "error", err, "idempotency_key", key)
				handler.RespondAppError(w, handler.ErrInternalError, nil)
				return
			}

			if !claimed {
				replay(w, r, store, key, userID, reqHash)
				return
			}

			completed := false
			defer func() {
				if completed {
					return
				}
				if err := store.Release(context.WithoutCancel(r.Context()), key, userID); err != nil {
					log.Error("idempotency release failed", "error", err, "idempotency_key", key)
				}
			}()

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.statusCode >= http.StatusInternalServerError {
				return
			}

			respBody := rec.body.Bytes()
			if respBody == nil {
				respBody = []byte{}
			}
			if err := store.Complete(context.WithoutCancel(r.Context()), key, userID, rec.statusCode, respBody); err != nil {
				log.Error("idempotency cache store failed", "error", err, "idempotency_key", key)
				return
			}
			completed = true
		})
	}
}

// replay answers a request whose key is already held by another request.
func replay(w http.ResponseWriter, r *http.Request, store idempotencyStore, key string, userID uuid.UUID, reqHash string) {
	log := logging.FromContext(r.Context())

	cached, err := store.Lookup(r.Context(), key, userID)
	if err != nil {
		log.Error("idempotency cache lookup failed", "error", err, "idempotency_key", key)
		handler.RespondAppError(w, handler.ErrInternalError, nil)
		return
	}

	if cached != nil && cached.RequestHash != reqHash {
		handler.RespondAppError(w, handler.ErrIdempotencyConflict, nil)
		return
	}

	// The holder released or has not finished yet.
	if cached == nil || cached.Pending() {
		handler.RespondAppError(w, handler.ErrIdempotencyInProgress, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Idempotent-Replayed", "true")
	w.WriteHeader(cached.StatusCode)
	if _, err := w.Write(cached.ResponseBody); err != nil {
		log.Error("failed to write idempotent replay", "error", err, "idempotency_key", key)
	}
}

func computeHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
