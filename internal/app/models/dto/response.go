package dto

import "time"

// APIResponse is the standard response envelope
type APIResponse struct {
	Data      interface{}     `json:"data,omitempty"`
	Meta      *PaginationInfo `json:"meta,omitempty"`
	Error     *ErrorDetail    `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// PaginationInfo describes the page window of a list response
type PaginationInfo struct {
	CurrentPage int   `json:"page" example:"1"`
	TotalPages  int   `json:"totalPages" example:"12"`
	PageSize    int   `json:"pageSize" example:"20"`
	TotalItems  int64 `json:"total" example:"231"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}
