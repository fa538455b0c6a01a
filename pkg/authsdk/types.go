package authsdk

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is the body returned by POST /Token and by every endpoint
// that signs the caller in (Register, ExternalLoginComplete,
// RegisterExternal).
type TokenResponse struct {
	// AccessToken is the opaque bearer token
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`

	// UserName is the name of the signed in user
	UserName string `json:"userName,omitempty"`

	// Issued and Expires are RFC 1123 timestamps copied from the ticket
	Issued  string `json:".issued,omitempty"`
	Expires string `json:".expires,omitempty"`
}

// ============================================================================
// Account View Models
// ============================================================================

// UserInfo is returned by GET /api/Account/UserInfo.
type UserInfo struct {
	UserName string `json:"userName"`
}

// UserLoginInfo describes one login linked to a user.
type UserLoginInfo struct {
	LoginProvider string `json:"loginProvider"`
	ProviderKey   string `json:"providerKey"`
}

// ExternalLogin describes a provider the user can sign in with. URL starts
// the external login flow; State is the anti-forgery value embedded in it.
type ExternalLogin struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	State string `json:"state,omitempty"`
}

// ManageInfo is returned by GET /api/Account/ManageInfo.
type ManageInfo struct {
	LocalLoginProvider     string          `json:"localLoginProvider"`
	UserName               string          `json:"userName"`
	Logins                 []UserLoginInfo `json:"logins"`
	ExternalLoginProviders []ExternalLogin `json:"externalLoginProviders"`
}

// PendingRegistration is returned by ExternalLoginComplete when the external
// login is not linked to any user yet.
type PendingRegistration struct {
	LoginProvider string `json:"loginProvider"`
	UserName      string `json:"userName"`
}

// ============================================================================
// Binding Models
// ============================================================================

// RegisterRequest is the body of POST /api/Account/Register.
type RegisterRequest struct {
	UserName        string `json:"userName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// ChangePasswordRequest is the body of POST /api/Account/ChangePassword.
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// SetPasswordRequest is the body of POST /api/Account/SetPassword.
type SetPasswordRequest struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// AddExternalLoginRequest is the body of POST /api/Account/AddExternalLogin.
type AddExternalLoginRequest struct {
	ExternalAccessToken string `json:"externalAccessToken"`
}

// RemoveLoginRequest is the body of POST /api/Account/RemoveLogin.
type RemoveLoginRequest struct {
	LoginProvider string `json:"loginProvider"`
	ProviderKey   string `json:"providerKey"`
}

// RegisterExternalRequest is the body of POST /api/Account/RegisterExternal.
type RegisterExternalRequest struct {
	UserName string `json:"userName"`
}

// ============================================================================
// Misc Types
// ============================================================================

// Message is returned by GET /api/message.
type Message struct {
	Text string `json:"text"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Codec indicates whether bearer tokens can be protected and unprotected
	Codec string `json:"codec"`
}
