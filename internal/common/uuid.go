package common

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type UUID string

func NewUUID() UUID {
	return UUID(uuid.NewString())
}

func ParseUUID(value string) (UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errors.New("uuid is empty")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", err
	}
	return UUID(parsed.String()), nil
}

func (u UUID) String() string {
	return string(u)
}

func (u UUID) IsZero() bool {
	return u == ""
}
