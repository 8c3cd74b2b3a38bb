package adaptor

import (
	"errors"
	"net"
	"net/http"

	"media-catalog/internal/usecase"
	"media-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Media     *MediaHandler
	Review    *ReviewHandler
	Community *CommunityHandler
	Post      *PostHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		Profile:   NewProfileHandler(service.Profile, log),
		Media:     NewMediaHandler(service.Media, log),
		Review:    NewReviewHandler(service.Review, log),
		Community: NewCommunityHandler(service.Community, log),
		Post:      NewPostHandler(service.Post, log),
	}
}

// handleServiceError maps service error kinds to HTTP responses. Anything
// without a kind is logged and reported as a 500.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var svcErr *usecase.Error
	message := "Internal server error"
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		var fields map[string]string
		if svcErr != nil {
			fields = svcErr.Fields
		}
		if fields != nil {
			utils.ResponseBadRequest(w, "Validation failed", fields)
			return
		}
		utils.ResponseBadRequest(w, message, nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, message)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return usecase.ClientInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}
