package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store/memory"
)

func TestAvailabilityCheck(t *testing.T) {
	users := memory.NewUsers()
	require.NoError(t, users.Create(context.Background(), &models.User{
		ID:       "u1",
		Role:     models.RoleClient,
		Email:    "taken_name@example.com",
		Username: "taken_name",
		Phone:    "+15551234567",
	}))

	c := NewAvailabilityChecker(users)

	tests := []struct {
		kind, value string
		want        Availability
	}{
		{"email", "free@example.com", Availability{Available: true}},
		{"email", " TAKEN_NAME@example.com", Availability{Reason: ReasonTaken, Message: "email already in use."}},
		{"email", "not-an-email", Availability{Reason: ReasonInvalid, Message: "Invalid email format."}},
		{"username", "Taken_Name", Availability{Reason: ReasonTaken, Message: "username already in use."}},
		{"username", "ab", Availability{Reason: ReasonInvalid, Message: "Use 3-20 chars: lowercase letters, numbers, underscore."}},
		{"username", "fresh_name", Availability{Available: true}},
		{"phone", "123", Availability{Reason: ReasonInvalid, Message: "Invalid phone format."}},
		{"phone", "+1 555-123-4567", Availability{Reason: ReasonTaken, Message: "phone already in use."}},
		{"phone", "+1 555 765 4321", Availability{Available: true}},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.value, func(t *testing.T) {
			got, err := c.Check(context.Background(), tt.kind, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailabilityRejectsBadRequests(t *testing.T) {
	c := NewAvailabilityChecker(memory.NewUsers())

	_, err := c.Check(context.Background(), "", "x")
	assert.True(t, IsKind(err, KindValidation))

	_, err = c.Check(context.Background(), "email", "   ")
	assert.True(t, IsKind(err, KindValidation))

	_, err = c.Check(context.Background(), "nickname", "bob")
	require.Error(t, err)
	e, _ := AsError(err)
	assert.Equal(t, "Invalid lookup type.", e.Message)
}
