package dto

import "time"

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TimestampResponse acknowledgement carrying when the action happened.
type TimestampResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
