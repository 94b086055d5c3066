package models

import "time"

// TokenResponse represents a freshly minted API bearer token
type TokenResponse struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires-at"`
}

// ErrorResponse represents an error returned by the report API
type ErrorResponse struct {
	Message string `json:"message"`
}
