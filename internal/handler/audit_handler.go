package handler

import (
	"net/http"
	"strconv"

	"github.com/kobenguyent/note-hub/internal/model"
	"github.com/kobenguyent/note-hub/internal/service"
)

type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := model.AuditQuery{
		Action:  q.Get("action"),
		ActorID: q.Get("actor_id"),
		Status:  q.Get("status"),
		From:    q.Get("from"),
		To:      q.Get("to"),
	}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.Limit, _ = strconv.Atoi(q.Get("limit"))

	entries, meta, err := h.audit.Query(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}

	writeSuccess(w, http.StatusOK, entries, &meta)
}
