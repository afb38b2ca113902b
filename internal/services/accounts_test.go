package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store/memory"
)

func janeDoe() RegisterInput {
	return RegisterInput{
		Name:        "Jane Doe",
		Email:       "Jane@Example.com",
		Username:    "Jane_Doe",
		Password:    "secret123",
		Role:        models.RoleFreelancer,
		Phone:       "+1 555-123-4567",
		AcceptTerms: true,
		RoleDetails: &models.RoleDetails{Skills: []string{" Go ", "", "React"}},
	}
}

func newTestAccounts() (*Accounts, *memory.Users) {
	users := memory.NewUsers()
	a := NewAccounts(users)
	a.now = fixedClock(testNow)
	return a, users
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	a, _ := newTestAccounts()

	u, err := a.Register(context.Background(), janeDoe())
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "jane_doe", u.Username)
	assert.Equal(t, "+15551234567", u.Phone)
	assert.Equal(t, []string{"Go", "React"}, u.Skills)
	assert.Equal(t, models.PlanFree, u.Monetization.Plan)
	assert.Empty(t, u.VerifiedBadges)
	require.NotNil(t, u.AcceptedTermsAt)
	assert.Equal(t, testNow, *u.AcceptedTermsAt)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEmpty(t, u.PasswordSalt)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "passwordHash")
	assert.NotContains(t, string(raw), "passwordSalt")
	assert.NotContains(t, string(raw), u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		msg    string
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "  " }, "name is required."},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }, "password must be at least 6 characters."},
		{"bad role", func(in *RegisterInput) { in.Role = "ADMIN" }, "Invalid role selected."},
		{"bad email", func(in *RegisterInput) { in.Email = "jane@" }, "Invalid email format."},
		{"bad phone", func(in *RegisterInput) { in.Phone = "12" }, "Invalid phone format."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAccounts()
			in := janeDoe()
			tt.mutate(&in)

			_, err := a.Register(context.Background(), in)
			require.Error(t, err)
			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, KindValidation, e.Kind)
			assert.Equal(t, tt.msg, e.Message)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	a, _ := newTestAccounts()
	_, err := a.Register(context.Background(), janeDoe())
	require.NoError(t, err)

	_, err = a.Register(context.Background(), janeDoe())
	require.Error(t, err)
	e, _ := AsError(err)
	assert.Equal(t, KindConflict, e.Kind)
	assert.Equal(t, "Email is already registered.", e.Message)

	in := janeDoe()
	in.Email = "other@example.com"
	_, err = a.Register(context.Background(), in)
	e, _ = AsError(err)
	require.NotNil(t, e)
	assert.Equal(t, "Username is already taken.", e.Message)
}

func TestLogin(t *testing.T) {
	a, users := newTestAccounts()
	reg, err := a.Register(context.Background(), janeDoe())
	require.NoError(t, err)
	addUser(t, users, "seed-1", "nopass", models.RoleClient)

	u, err := a.Login(context.Background(), LoginInput{Email: " JANE@example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	_, err = a.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrong-pass"})
	assert.True(t, IsKind(err, KindUnauthorized))

	_, err = a.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "secret123"})
	assert.True(t, IsKind(err, KindNotFound))

	_, err = a.Login(context.Background(), LoginInput{Email: "", Password: "x"})
	assert.True(t, IsKind(err, KindValidation))

	_, err = a.Login(context.Background(), LoginInput{Email: "nopass@example.com", Password: "secret123"})
	assert.True(t, IsKind(err, KindValidation))
}

func TestMe(t *testing.T) {
	a, users := newTestAccounts()
	addUser(t, users, "u1", "someone", models.RoleClient)

	u, err := a.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "someone", u.Username)

	_, err = a.Me(context.Background(), "missing")
	assert.True(t, IsKind(err, KindNotFound))
}
