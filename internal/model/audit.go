package model

type AuditEntry struct {
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at"`
	ActorID    string `json:"actor_id,omitempty"`
	Status     string `json:"status"`
	Resource   string `json:"resource,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

type AuditQuery struct {
	Action  string
	ActorID string
	Status  string
	From    string
	To      string
	Page    int
	Limit   int
}
