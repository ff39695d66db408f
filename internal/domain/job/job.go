package job

import (
	"time"

	"jobportal/internal/common"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Job struct {
	ID           common.UUID `json:"id"`
	ProviderID   common.UUID `json:"provider_id"`
	Title        string      `json:"title"`
	Type         string      `json:"type"`
	Description  string      `json:"description"`
	Requirements []string    `json:"requirements"`
	Salary       string      `json:"salary"`
	Location     string      `json:"location"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
