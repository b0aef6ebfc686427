package server

import (
	"time"

	"github.com/sig-0/countryfacts/storage/types"
)

type RefreshResponse struct {
	*types.RefreshOutcome

	Message string `json:"message"`
}

type StatusResponse struct {
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
	TotalCountries  int64      `json:"total_countries"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
	Source string `json:"source,omitempty"`
}
