package models

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
