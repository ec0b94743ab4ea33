package helpers

// EnhancedClaims is what the auth middleware stores under the "user" key.
type EnhancedClaims struct {
	*CustomClaims
	Role   string `json:"role"`
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
}

// Caller returns the verified identity used as event owner and attendee.
func (ec *EnhancedClaims) Caller() string {
	return ec.UserID
}
