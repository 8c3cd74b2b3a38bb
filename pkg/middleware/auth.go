package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"media-catalog/internal/data/repository"
	"media-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errTokenFormat  = errors.New("invalid token format, use: Bearer <token>")
	errNoSession    = errors.New("invalid or expired session")
)

type authenticator struct {
	sessions repository.SessionRepository
	log      *zap.Logger
}

// resolve loads the session behind the bearer token and returns a context
// carrying the user id, the admin flag and the token.
func (a *authenticator) resolve(r *http.Request) (context.Context, error) {
	token, err := bearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	session, err := a.sessions.FindActive(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errNoSession
	}

	ctx := utils.SetUserContext(r.Context(), session.UserID, session.IsAdmin)
	ctx = utils.SetTokenContext(ctx, token)
	return ctx, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errTokenFormat
	}

	token = strings.TrimSpace(token)
	if _, err := uuid.Parse(token); err != nil {
		return "", errTokenFormat
	}
	return token, nil
}

func isAuthError(err error) bool {
	return errors.Is(err, errMissingToken) || errors.Is(err, errTokenFormat) || errors.Is(err, errNoSession)
}

// AuthSession middleware untuk validasi session token UUID
func AuthSession(
	sessionRepo repository.SessionRepository,
	logger *zap.Logger,
) func(http.Handler) http.Handler {
	auth := &authenticator{sessions: sessionRepo, log: logger}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := auth.resolve(r)
			if isAuthError(err) {
				logger.Debug("Rejected request", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, err.Error())
				return
			}
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth fills the user context when a valid token is sent and lets
// anonymous or stale-token requests through unchanged.
func OptionalAuth(
	sessionRepo repository.SessionRepository,
	logger *zap.Logger,
) func(http.Handler) http.Handler {
	auth := &authenticator{sessions: sessionRepo, log: logger}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := auth.resolve(r)
			if err != nil {
				if !isAuthError(err) {
					logger.Warn("Optional auth lookup failed", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin - middleware cek is_admin, dipasang setelah AuthSession
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Get user ID dari context (sudah diset AuthSession)
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			// 2. Check admin flag
			if !utils.IsAdminFromContext(r.Context()) {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			// 3. Lanjut ke handler
			next.ServeHTTP(w, r)
		})
	}
}
