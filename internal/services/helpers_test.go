package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store/memory"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func addUser(t *testing.T, users *memory.Users, id, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		ID:           id,
		Role:         role,
		Name:         username,
		Email:        username + "@example.com",
		Username:     username,
		Monetization: models.DefaultMonetization(),
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func addJob(t *testing.T, jobs *memory.Jobs, j models.Job) {
	t.Helper()
	if j.Status == "" {
		j.Status = models.JobStatusOpen
	}
	require.NoError(t, jobs.Create(context.Background(), &j))
}

func ptr[T any](v T) *T { return &v }

// recordingPublisher collects published events.
type recordingPublisher struct {
	events []JobEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt JobEvent) {
	p.events = append(p.events, evt)
}
