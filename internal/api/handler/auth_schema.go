package handler

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// usernameRequest carries an availability-check candidate. No required
// tag: an empty candidate is simply reported unavailable, not rejected.
type usernameRequest struct {
	Username string `json:"username"`
}

// baseResponse is the envelope for register/login/logout. Business
// failures are success=false with a message, never an HTTP error.
type baseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type sessionResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username,omitempty"`
}

type availabilityResponse struct {
	Success   bool `json:"success"`
	Available bool `json:"available"`
}
