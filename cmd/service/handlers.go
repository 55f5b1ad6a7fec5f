package main

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tunaaoguzhann/expiring-media/core"
)

func newRouter(cfg config, manager *core.Manager, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware(logger))
	r.Get("/healthz", handleHealth(manager))
	r.Group(func(api chi.Router) {
		api.Use(jwtAuth(cfg.JWTSecret))
		api.Post("/media", handleShare(manager, cfg.MaxBodyBytes))
	})
	r.Get("/media/{payload}", handleRedeem(manager))
	return r
}

type shareRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type shareResponse struct {
	Token     string    `json:"token"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expires_at"`
}

func handleShare(manager *core.Manager, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := r.Context().Value(clientIDKey).(string)
		if !ok || clientID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req shareRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		link, err := manager.Share(r.Context(), clientID, core.Media{
			Name:        req.Name,
			ContentType: req.ContentType,
			Data:        req.Data,
		})
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		writeJSON(w, http.StatusCreated, shareResponse{
			Token:     link.Token,
			Link:      "/media/" + link.Payload,
			ExpiresAt: link.ExpiresAt,
		})
	}
}

func handleRedeem(manager *core.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := manager.Redeem(r.Context(), chi.URLParam(r, "payload"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		w.Header().Set("Content-Type", media.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(media.Data)))
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Disposition", contentDisposition(media))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(media.Data)
	}
}

// contentDisposition lets browsers render plain images, audio and video;
// everything else is downloaded so depositors cannot serve active content
// from this origin.
func contentDisposition(media core.Media) string {
	disposition := "attachment"
	if mt, _, err := mime.ParseMediaType(media.ContentType); err == nil && mt != "image/svg+xml" {
		if strings.HasPrefix(mt, "image/") || strings.HasPrefix(mt, "audio/") || strings.HasPrefix(mt, "video/") {
			disposition = "inline"
		}
	}
	if media.Name == "" {
		return disposition
	}
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": media.Name}); v != "" {
		return v
	}
	return disposition
}

func handleHealth(manager *core.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"entries": manager.Pending(),
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrBadSignature), errors.Is(err, core.ErrBadPayload):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrDuplicateKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidMedia):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
