package model

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	// Identity accepts either a username or an email address.
	Identity string `json:"identity"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type SecondFactorRequest struct {
	PendingToken string `json:"pending_token"`
	TOTPCode     string `json:"totp_code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Identity string `json:"identity"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type EnableTOTPRequest struct {
	Secret   string `json:"secret"`
	TOTPCode string `json:"totp_code"`
}

type NoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ShareRequest struct {
	Username string `json:"username"`
	CanEdit  bool   `json:"can_edit"`
}
