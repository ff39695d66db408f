package application

import (
	"time"

	"jobportal/internal/common"
	"jobportal/internal/domain/user"
)

type Application struct {
	ID             common.UUID  `json:"id"`
	JobID          common.UUID  `json:"job_id"`
	SeekerID       common.UUID  `json:"seeker_id"`
	ProviderID     common.UUID  `json:"provider_id"`
	SeekerMessage  string       `json:"seeker_message,omitempty"`
	Status         Status       `json:"status"`
	SeekerHidden   bool         `json:"seeker_hidden"`
	ProviderHidden bool         `json:"provider_hidden"`
	ChatID         *common.UUID `json:"chat_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// HiddenFor reports whether the record is soft-removed from the given
// role's list view. Admins always see everything.
func (a Application) HiddenFor(role user.Role) bool {
	switch role {
	case user.RoleSeeker:
		return a.SeekerHidden
	case user.RoleProvider:
		return a.ProviderHidden
	default:
		return false
	}
}
