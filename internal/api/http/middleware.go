package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"clubsphere-backend/internal/config"
	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
	Role   domain.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == domain.UserRoleAdmin
}

// PrincipalFromContext returns the caller resolved by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

// statusRecorder captures the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logging logs every request and records its latency.
func (h *Handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		name := routeName(r)

		ctx := logger.NewContext(r.Context(), "route", name)
		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		h.metrics.ObserveHTTPRequest(r.Method, name, rec.status, elapsed)
		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", name,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				writeError(w, r, fmt.Errorf("panic: %v\n%s", p, debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.maxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate enforces the security level of the matched route and puts
// the caller's Principal into the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeName(r))
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeFailure(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := h.tokens.ValidateToken(token)
		if err != nil {
			logger.DebugContext(r.Context(), "Token rejected", "error", err)
			writeFailure(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if level == config.SecurityAdmin && !claims.IsAdmin() {
			writeFailure(w, http.StatusForbidden, "Admin access required")
			return
		}

		p := Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		ctx := context.WithValue(r.Context(), principalContextKey, p)
		ctx = logger.NewContext(ctx, "user_id", p.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
