package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kobenguyent/note-hub/internal/crypto"
	"github.com/kobenguyent/note-hub/internal/model"
	"github.com/kobenguyent/note-hub/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		// Deliberately the same answer for unknown identity and wrong
		// password.
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
	} else if errors.Is(err, model.ErrInvalidSecondFactorCode) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_2FA_CODE"
		body.Message = "Invalid two-factor code"
	} else if errors.Is(err, model.ErrInvalidToken) || errors.Is(err, model.ErrWrongTokenKind) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid token"
	} else if errors.Is(err, model.ErrExpiredToken) {
		status = http.StatusUnauthorized
		body.Code = "TOKEN_EXPIRED"
		body.Message = "Token expired"
	} else if errors.Is(err, model.ErrTokenAlreadyUsed) {
		status = http.StatusGone
		body.Code = "GONE"
		body.Message = "Token already used"
	} else if errors.Is(err, model.ErrAccessDenied) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "User already exists"
	} else if errors.Is(err, model.ErrNoteNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Note not found"
	} else if errors.Is(err, model.ErrShareNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Share not found"
	} else if errors.Is(err, model.ErrSelfShare) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Cannot share a note with its owner"
	} else if errors.Is(err, crypto.ErrPasswordTooShort) {
		status = http.StatusBadRequest
		body.Code = "WEAK_PASSWORD"
		body.Message = "Password is too short"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		// Storage failures must never surface as authentication answers.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
