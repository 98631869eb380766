package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kobenguyent/note-hub/internal/middleware"
	"github.com/kobenguyent/note-hub/internal/model"
	"github.com/kobenguyent/note-hub/internal/service"
	"github.com/kobenguyent/note-hub/pkg/apierror"
)

type ShareHandler struct {
	shares *service.ShareService
}

func NewShareHandler(shares *service.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" {
		writeError(w, apierror.New("BAD_REQUEST", "username is required", "username", http.StatusBadRequest))
		return
	}

	grant, err := h.shares.Share(r.Context(), claims.UserID, chi.URLParam(r, "noteID"), payload.Username, payload.CanEdit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, grant, nil)
}

func (h *ShareHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	grants, err := h.shares.ListGrants(r.Context(), claims.UserID, chi.URLParam(r, "noteID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if grants == nil {
		grants = []model.ShareGrant{}
	}

	writeSuccess(w, http.StatusOK, grants, nil)
}

func (h *ShareHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	err := h.shares.Revoke(r.Context(), claims.UserID, chi.URLParam(r, "noteID"), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"revoked": true}, nil)
}
