// Package store defines the persistence contracts for users, jobs,
// proposals and the billing ledger, with MongoDB and PostgreSQL
// implementations. In-memory fakes live in store/memory.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nainix/marketplace-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

// UserField names a uniquely looked-up user attribute.
type UserField string

const (
	FieldEmail    UserField = "email"
	FieldUsername UserField = "username"
	FieldPhone    UserField = "phone"
)

// Upgrade describes a monetization change applied atomically to one user.
type Upgrade struct {
	ActivateVerification bool
	AddBadge             string
	ActivateAIPro        bool
	At                   time.Time
}

type UserRepository interface {
	// Create inserts u. Email and username collisions return ErrDuplicate.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, field UserField, value string) (bool, error)
	// ApplyUpgrade applies up and returns the updated user.
	ApplyUpgrade(ctx context.Context, id string, up Upgrade) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate, at time.Time) (*models.User, error)
	SetAvatar(ctx context.Context, id, url string, at time.Time) (*models.User, error)
}

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	// List returns every job, newest first.
	List(ctx context.Context) ([]models.Job, error)
	ListIDsByClient(ctx context.Context, clientID string) ([]string, error)
	SetFeatured(ctx context.Context, id string, until, at time.Time) (*models.Job, error)
	// ExpireFeatured clears isFeatured on jobs whose boost ended at or before
	// now and returns their ids.
	ExpireFeatured(ctx context.Context, now time.Time) ([]string, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, p *models.Proposal) error
	// ListByFreelancer returns the freelancer's proposals, newest first.
	ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Proposal, error)
	// ListByJobs returns proposals for the given jobs in submission order.
	ListByJobs(ctx context.Context, jobIDs []string) ([]models.Proposal, error)
}

// Ledger is the append-only billing log.
type Ledger interface {
	Append(ctx context.Context, tx *models.BillingTransaction) error
	// ListByUser returns the user's transactions, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.BillingTransaction, error)
}
