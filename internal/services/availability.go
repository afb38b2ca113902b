package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nainix/marketplace-backend/internal/store"
	"github.com/nainix/marketplace-backend/pkg/utils"
)

const (
	ReasonInvalid = "invalid"
	ReasonTaken   = "taken"
)

// Availability is the advisory answer for a registration field. The
// authoritative uniqueness check happens again inside Register.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

type AvailabilityChecker struct {
	users store.UserRepository
}

func NewAvailabilityChecker(users store.UserRepository) *AvailabilityChecker {
	return &AvailabilityChecker{users: users}
}

// Check validates value for the field named by kind (email, username or
// phone) and looks it up.
func (c *AvailabilityChecker) Check(ctx context.Context, kind, raw string) (Availability, error) {
	if kind == "" || strings.TrimSpace(raw) == "" {
		return Availability{}, validationErr("Type and value are required.")
	}

	var (
		field store.UserField
		value string
	)
	switch kind {
	case "email":
		field, value = store.FieldEmail, utils.NormalizeEmail(raw)
		if !utils.IsValidEmail(value) {
			return invalid("Invalid email format."), nil
		}
	case "username":
		field, value = store.FieldUsername, utils.NormalizeUsername(raw)
		if !utils.IsValidUsername(value) {
			return invalid("Use 3-20 chars: lowercase letters, numbers, underscore."), nil
		}
	case "phone":
		field, value = store.FieldPhone, utils.NormalizePhone(raw)
		if !utils.IsValidPhone(value) {
			return invalid("Invalid phone format."), nil
		}
	default:
		return Availability{}, validationErr("Invalid lookup type.")
	}

	taken, err := c.users.Exists(ctx, field, value)
	if err != nil {
		return Availability{}, fmt.Errorf("lookup %s: %w", kind, err)
	}
	if taken {
		return Availability{Reason: ReasonTaken, Message: kind + " already in use."}, nil
	}
	return Availability{Available: true}, nil
}

func invalid(msg string) Availability {
	return Availability{Reason: ReasonInvalid, Message: msg}
}
