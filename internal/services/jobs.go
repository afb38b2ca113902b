package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nainix/marketplace-backend/internal/metrics"
	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store"
)

const (
	// DefaultFeaturedDays applies when a boost request omits the duration.
	DefaultFeaturedDays = 3
	featureDay          = 24 * time.Hour
)

// FeaturePrice is the mock charge for a featured boost: $9 for one day,
// $19 for three. Any other duration is not offered.
func FeaturePrice(days int) (float64, bool) {
	switch days {
	case 1:
		return 9, true
	case 3:
		return 19, true
	default:
		return 0, false
	}
}

// NormalizeFeatured returns a copy of jobs in which every boost that ended at
// or before now is shown as not featured, with no end time. Stored data is
// untouched.
func NormalizeFeatured(jobs []models.Job, now time.Time) []models.Job {
	out := make([]models.Job, len(jobs))
	for i, j := range jobs {
		if j.IsFeatured && !j.FeaturedAt(now) {
			j.IsFeatured = false
			j.FeaturedUntil = nil
		}
		out[i] = j
	}
	return out
}

// FilterJobs keeps the jobs matching every set criterion. Budgets match on
// range overlap; skills match when any requested skill is required.
func FilterJobs(jobs []models.Job, f models.JobFilter) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.UrgentOnly && !j.IsUrgent {
			continue
		}
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		if f.BudgetMin != nil && j.BudgetMax < *f.BudgetMin {
			continue
		}
		if f.BudgetMax != nil && j.BudgetMin > *f.BudgetMax {
			continue
		}
		if len(f.Skills) > 0 && !sharesSkill(j.RequiredSkills, f.Skills) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func sharesSkill(required, wanted []string) bool {
	for _, w := range wanted {
		for _, r := range required {
			if r == w {
				return true
			}
		}
	}
	return false
}

// SortJobs orders jobs for listing in place: live featured boosts first,
// then urgent jobs, then newest. The sort is stable.
func SortJobs(jobs []models.Job, now time.Time) {
	sort.SliceStable(jobs, func(a, b int) bool {
		fa, fb := jobs[a].FeaturedAt(now), jobs[b].FeaturedAt(now)
		if fa != fb {
			return fa
		}
		if jobs[a].IsUrgent != jobs[b].IsUrgent {
			return jobs[a].IsUrgent
		}
		return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
	})
}

type CreateJobInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	BudgetMin      float64  `json:"budgetMin"`
	BudgetMax      float64  `json:"budgetMax"`
	RequiredSkills []string `json:"requiredSkills"`
	IsUrgent       bool     `json:"isUrgent"`
	IsFeatured     bool     `json:"isFeatured"`
	FeaturedDays   int      `json:"featuredDays"`
}

type FeatureJobInput struct {
	JobID        string      `json:"jobId"`
	FeaturedDays int         `json:"featuredDays"`
	Role         models.Role `json:"role"`
}

type FeatureJobResult struct {
	JobID         string    `json:"jobId"`
	FeaturedDays  int       `json:"featuredDays"`
	FeaturedUntil time.Time `json:"featuredUntil"`
	AmountUSD     float64   `json:"amountUsd"`
	Status        string    `json:"status"`
}

// JobsConfig wires the job service.
type JobsConfig struct {
	Jobs   store.JobRepository
	Users  store.UserRepository
	Ledger store.Ledger
	Cache  JobCache
	Events EventPublisher
	// SeedFallback serves the demo job set when the store is empty.
	SeedFallback bool
}

type Jobs struct {
	jobs   store.JobRepository
	users  store.UserRepository
	ledger store.Ledger
	cache  JobCache
	events EventPublisher
	seed   bool
	now    func() time.Time
}

func NewJobs(cfg JobsConfig) *Jobs {
	return &Jobs{
		jobs:   cfg.Jobs,
		users:  cfg.Users,
		ledger: cfg.Ledger,
		cache:  cfg.Cache,
		events: cfg.Events,
		seed:   cfg.SeedFallback,
		now:    time.Now,
	}
}

// List returns the filtered, ordered job listing.
func (s *Jobs) List(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	now := s.now()

	raw, ok := s.cachedJobs(ctx)
	if !ok {
		var err error
		raw, err = s.jobs.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		if s.cache != nil {
			s.cache.SetJobs(ctx, raw)
		}
	}
	if len(raw) == 0 && s.seed {
		raw = models.SeedJobs(now)
	}

	jobs := FilterJobs(NormalizeFeatured(raw, now), f)
	SortJobs(jobs, now)
	return jobs, nil
}

func (s *Jobs) cachedJobs(ctx context.Context) ([]models.Job, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.GetJobs(ctx)
}

func (s *Jobs) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *Jobs) publish(ctx context.Context, evt JobEvent) {
	if s.events != nil {
		s.events.Publish(ctx, evt)
	}
}

// Create posts a job on behalf of a client.
func (s *Jobs) Create(ctx context.Context, userID string, in CreateJobInput) (*models.Job, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.Role != models.RoleClient {
		return nil, forbiddenErr("Only clients can create jobs.")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	skills := cleanList(in.RequiredSkills)

	if in.Title == "" || in.Description == "" || in.Category == "" ||
		in.BudgetMin <= 0 || in.BudgetMax <= 0 || len(skills) == 0 {
		return nil, validationErr("Invalid job payload.")
	}
	if in.BudgetMin > in.BudgetMax {
		return nil, validationErr("Budget min cannot exceed budget max.")
	}
	if !models.IsJobCategory(in.Category) {
		return nil, validationErr("Invalid job category.")
	}

	now := s.now().UTC()
	job := &models.Job{
		ID:             uuid.NewString(),
		ClientID:       user.ID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		BudgetMin:      in.BudgetMin,
		BudgetMax:      in.BudgetMax,
		RequiredSkills: skills,
		IsUrgent:       in.IsUrgent,
		Status:         models.JobStatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.IsFeatured {
		if _, ok := FeaturePrice(in.FeaturedDays); !ok {
			return nil, validationErr("featuredDays must be 1 or 3.")
		}
		until := now.Add(time.Duration(in.FeaturedDays) * featureDay)
		job.IsFeatured = true
		job.FeaturedUntil = &until
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.invalidate(ctx)
	s.publish(ctx, JobEvent{Type: EventJobCreated, JobID: job.ID, Job: job, Timestamp: now})
	metrics.JobsCreatedTotal.Inc()
	slog.InfoContext(ctx, "job created", "job_id", job.ID, "client_id", user.ID, "featured", job.IsFeatured)
	return job, nil
}

// Feature boosts one of the caller's jobs and records the mock charge.
func (s *Jobs) Feature(ctx context.Context, userID string, in FeatureJobInput) (*FeatureJobResult, error) {
	if in.FeaturedDays == 0 {
		in.FeaturedDays = DefaultFeaturedDays
	}
	if strings.TrimSpace(in.JobID) == "" {
		return nil, validationErr("jobId is required.")
	}
	price, ok := FeaturePrice(in.FeaturedDays)
	if !ok {
		return nil, validationErr("featuredDays must be 1 or 3.")
	}

	user, err := findUser(ctx, s.users, userID, "User not found.")
	if err != nil {
		return nil, err
	}
	if in.Role != "" && in.Role != user.Role {
		return nil, forbiddenErr("Role mismatch for this account.")
	}
	if user.Role != models.RoleClient {
		return nil, forbiddenErr("Only clients can feature jobs.")
	}

	job, err := s.jobs.FindByID(ctx, in.JobID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("Job not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job.ClientID != user.ID {
		return nil, forbiddenErr("You can only feature your own jobs.")
	}

	now := s.now().UTC()
	until := now.Add(time.Duration(in.FeaturedDays) * featureDay)
	job, err = s.jobs.SetFeatured(ctx, job.ID, until, now)
	if err != nil {
		return nil, fmt.Errorf("feature job: %w", err)
	}

	tx := &models.BillingTransaction{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		Feature:   models.FeatureFeaturedJob,
		AmountUSD: price,
		Currency:  models.CurrencyUSD,
		Status:    models.StatusPaidMock,
		JobID:     job.ID,
		CreatedAt: now,
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("record featured charge: %w", err)
	}
	metrics.MockChargesTotal.WithLabelValues(string(tx.Feature)).Inc()

	s.invalidate(ctx)
	s.publish(ctx, JobEvent{Type: EventJobFeatured, JobID: job.ID, Job: job, Timestamp: now})

	return &FeatureJobResult{
		JobID:         job.ID,
		FeaturedDays:  in.FeaturedDays,
		FeaturedUntil: until,
		AmountUSD:     price,
		Status:        models.StatusPaidMock,
	}, nil
}
