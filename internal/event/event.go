package event

type Type string

const (
	TypeUserRegistered      Type = "user.registered"
	TypeLoginSucceeded      Type = "auth.login_succeeded"
	TypeLoginFailed         Type = "auth.login_failed"
	TypeSecondFactorPending Type = "auth.second_factor_pending"
	TypeSecondFactorFailed  Type = "auth.second_factor_failed"
	TypeTOTPEnabled         Type = "auth.totp_enabled"
	TypeTOTPDisabled        Type = "auth.totp_disabled"
	TypeResetRequested      Type = "reset.requested"
	TypeResetRedeemed       Type = "reset.redeemed"
	TypeNoteShared          Type = "note.shared"
	TypeNoteUnshared        Type = "note.unshared"
)

// Event is a domain fact published on the in-process bus. The audit
// recorder persists them; payloads never carry secrets or password
// material.
type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	ActorID   string `json:"actor_id,omitempty"`
	Resource  string `json:"resource,omitempty"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
