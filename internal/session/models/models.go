package models

import "time"

// Session is an issued admin session.
type Session struct {
	Token     string
	SessionID string
	Subject   string
	ExpiresAt time.Time
}

// Claims are the verified contents of a presented session token.
type Claims struct {
	Subject   string
	SessionID string
	JTI       string
	ExpiresAt time.Time
}

// LoginRequest is the admin login form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Message   string    `json:"message"`
}
