package auth

// AuthError is a typed authentication failure with a stable code.
type AuthError struct {
	Code    string
	Message string
}

func (e AuthError) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials = AuthError{Code: "invalid_credentials", Message: "invalid email or password"}
	ErrEmailTaken         = AuthError{Code: "email_taken", Message: "email is already registered"}
	ErrUnauthorized       = AuthError{Code: "unauthorized", Message: "authentication required"}
	ErrForbidden          = AuthError{Code: "forbidden", Message: "insufficient permissions"}
	ErrInvalidToken       = AuthError{Code: "invalid_token", Message: "token is invalid"}
	ErrTokenExpired       = AuthError{Code: "token_expired", Message: "token has expired"}
	ErrWeakPassword       = AuthError{Code: "weak_password", Message: "password does not meet requirements"}
)
