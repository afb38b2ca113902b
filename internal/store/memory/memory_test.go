package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store"
)

func TestUsersUniqueness(t *testing.T) {
	ctx := context.Background()
	users := NewUsers()

	require.NoError(t, users.Create(ctx, &models.User{ID: "1", Email: "a@b.co", Username: "alice"}))
	assert.ErrorIs(t, users.Create(ctx, &models.User{ID: "2", Email: "a@b.co", Username: "bob"}), store.ErrDuplicate)
	assert.ErrorIs(t, users.Create(ctx, &models.User{ID: "3", Email: "c@d.co", Username: "alice"}), store.ErrDuplicate)

	exists, err := users.Exists(ctx, store.FieldUsername, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.Exists(ctx, store.FieldPhone, "+15550000001")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersApplyUpgradeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{ID: "1", Email: "a@b.co", Username: "alice"}))

	up := store.Upgrade{ActivateVerification: true, AddBadge: models.VerifiedUserBadge, At: time.Now()}
	_, err := users.ApplyUpgrade(ctx, "1", up)
	require.NoError(t, err)
	u, err := users.ApplyUpgrade(ctx, "1", up)
	require.NoError(t, err)

	assert.Equal(t, []string{models.VerifiedUserBadge}, u.VerifiedBadges)
	assert.True(t, u.Monetization.VerificationBadgeActive)
	assert.Equal(t, models.PlanFree, u.Monetization.Plan)
}

func TestUsersReturnCopies(t *testing.T) {
	ctx := context.Background()
	users := NewUsers()
	require.NoError(t, users.Create(ctx, &models.User{ID: "1", Email: "a@b.co", Username: "alice", Skills: []string{"Go"}}))

	u, err := users.FindByID(ctx, "1")
	require.NoError(t, err)
	u.Skills[0] = "Rust"

	again, err := users.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, again.Skills)
}

func TestJobsExpireFeatured(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Minute), now.Add(time.Hour)

	jobs := NewJobs()
	require.NoError(t, jobs.Create(ctx, &models.Job{ID: "expired", IsFeatured: true, FeaturedUntil: &past}))
	require.NoError(t, jobs.Create(ctx, &models.Job{ID: "boundary", IsFeatured: true, FeaturedUntil: &now}))
	require.NoError(t, jobs.Create(ctx, &models.Job{ID: "live", IsFeatured: true, FeaturedUntil: &future}))
	require.NoError(t, jobs.Create(ctx, &models.Job{ID: "open-ended", IsFeatured: true}))

	ids, err := jobs.ExpireFeatured(ctx, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"expired", "boundary"}, ids)

	live, err := jobs.FindByID(ctx, "live")
	require.NoError(t, err)
	assert.True(t, live.IsFeatured)

	ids, err = jobs.ExpireFeatured(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestJobsListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	jobs := NewJobs()
	require.NoError(t, jobs.Create(ctx, &models.Job{ID: "old", ClientID: "c1", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, jobs.Create(ctx, &models.Job{ID: "new", ClientID: "c2", CreatedAt: base}))

	list, err := jobs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	ids, err := jobs.ListIDsByClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids)
}

func TestProposalsOrdering(t *testing.T) {
	ctx := context.Background()
	proposals := NewProposals()
	for _, p := range []models.Proposal{
		{ID: "p1", JobID: "j1", FreelancerID: "f1"},
		{ID: "p2", JobID: "j2", FreelancerID: "f1"},
		{ID: "p3", JobID: "j1", FreelancerID: "f2"},
	} {
		p := p
		require.NoError(t, proposals.Create(ctx, &p))
	}

	mine, err := proposals.ListByFreelancer(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "p2", mine[0].ID)

	byJob, err := proposals.ListByJobs(ctx, []string{"j1"})
	require.NoError(t, err)
	require.Len(t, byJob, 2)
	assert.Equal(t, "p1", byJob[0].ID)
	assert.Equal(t, "p3", byJob[1].ID)
}
