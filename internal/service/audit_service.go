package service

import (
	"context"
	"log/slog"

	"github.com/kobenguyent/note-hub/internal/event"
	"github.com/kobenguyent/note-hub/internal/model"
)

// AuditService persists domain events into the audit table and serves
// queries over them.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Record runs until the subscription channel closes, persisting every
// event it receives. Meant to be launched as a goroutine at startup.
func (s *AuditService) Record(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			entry := model.AuditEntry{
				Action:     string(e.Type),
				OccurredAt: e.Timestamp,
				ActorID:    e.ActorID,
				Status:     e.Status,
				Resource:   e.Resource,
				Detail:     e.Detail,
			}
			if err := s.store.Log(ctx, entry); err != nil {
				slog.Warn("failed to persist audit entry", "action", entry.Action, "error", err)
			}
		}
	}
}

func (s *AuditService) Query(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 50
	}
	return s.store.Query(ctx, q)
}
