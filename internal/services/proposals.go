package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nainix/marketplace-backend/internal/metrics"
	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store"
)

const (
	minMatchScore   = 80
	matchScoreRange = 20
)

// MatchScorer assigns a smart-match score in [80, 99] to a new proposal.
type MatchScorer interface {
	Score(job *models.Job, freelancer *models.User) int
}

// RandomScorer is the placeholder scorer: 80 plus a uniform offset in
// [0, 20). It does not look at skills.
type RandomScorer struct{}

func (RandomScorer) Score(*models.Job, *models.User) int {
	return minMatchScore + rand.Intn(matchScoreRange)
}

// ScorerFunc adapts a function to MatchScorer.
type ScorerFunc func(job *models.Job, freelancer *models.User) int

func (f ScorerFunc) Score(job *models.Job, freelancer *models.User) int { return f(job, freelancer) }

type SubmitProposalInput struct {
	JobID         string  `json:"jobId"`
	Pitch         string  `json:"pitch"`
	EstimatedDays int     `json:"estimatedDays"`
	Price         float64 `json:"price"`
}

// ProposalList is the role-scoped proposal view. For clients, ByJob holds
// each job's proposals ranked by smart-match score.
type ProposalList struct {
	Proposals []models.Proposal            `json:"proposals"`
	ByJob     map[string][]models.Proposal `json:"byJob,omitempty"`
}

type ProposalsConfig struct {
	Proposals    store.ProposalRepository
	Jobs         store.JobRepository
	Users        store.UserRepository
	Scorer       MatchScorer
	SeedFallback bool
}

type Proposals struct {
	proposals store.ProposalRepository
	jobs      store.JobRepository
	users     store.UserRepository
	scorer    MatchScorer
	seed      bool
	now       func() time.Time
}

func NewProposals(cfg ProposalsConfig) *Proposals {
	scorer := cfg.Scorer
	if scorer == nil {
		scorer = RandomScorer{}
	}
	return &Proposals{
		proposals: cfg.Proposals,
		jobs:      cfg.Jobs,
		users:     cfg.Users,
		scorer:    scorer,
		seed:      cfg.SeedFallback,
		now:       time.Now,
	}
}

// TruncatePitch trims the pitch and cuts it to MaxPitchLength characters.
func TruncatePitch(pitch string) string {
	pitch = strings.TrimSpace(pitch)
	runes := []rune(pitch)
	if len(runes) > models.MaxPitchLength {
		return string(runes[:models.MaxPitchLength])
	}
	return pitch
}

// Submit records a freelancer's proposal on an open job.
func (s *Proposals) Submit(ctx context.Context, userID string, in SubmitProposalInput) (*models.Proposal, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.Role != models.RoleFreelancer {
		return nil, forbiddenErr("Only freelancers can submit proposals.")
	}

	pitch := TruncatePitch(in.Pitch)
	if strings.TrimSpace(in.JobID) == "" || pitch == "" || in.EstimatedDays <= 0 || in.Price <= 0 {
		return nil, validationErr("Invalid proposal payload.")
	}

	job, err := s.jobs.FindByID(ctx, in.JobID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("Job not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job.Status != models.JobStatusOpen {
		return nil, conflictErr("This job is no longer accepting proposals.")
	}

	p := &models.Proposal{
		ID:              uuid.NewString(),
		JobID:           job.ID,
		FreelancerID:    user.ID,
		Pitch:           pitch,
		EstimatedDays:   in.EstimatedDays,
		Price:           in.Price,
		SmartMatchScore: s.scorer.Score(job, user),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.proposals.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	metrics.ProposalsSubmittedTotal.Inc()
	return p, nil
}

// List returns the caller's proposals: freelancers see their own, newest
// first; clients see proposals on their jobs, ranked per job.
func (s *Proposals) List(ctx context.Context, userID string) (*ProposalList, error) {
	user, err := findUser(ctx, s.users, userID, "User not found.")
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleFreelancer {
		mine, err := s.proposals.ListByFreelancer(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list proposals: %w", err)
		}
		if len(mine) == 0 && s.seed {
			for _, p := range models.SeedProposals(s.now()) {
				if p.FreelancerID == user.ID {
					mine = append(mine, p)
				}
			}
		}
		return &ProposalList{Proposals: mine}, nil
	}

	jobIDs, err := s.jobs.ListIDsByClient(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list client jobs: %w", err)
	}
	received, err := s.proposals.ListByJobs(ctx, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}

	byJob := GroupRanked(received)
	flat := make([]models.Proposal, 0, len(received))
	for _, id := range jobIDs {
		flat = append(flat, byJob[id]...)
	}
	return &ProposalList{Proposals: flat, ByJob: byJob}, nil
}

// RankProposals orders proposals by smart-match score, highest first.
// Equal scores keep their original order.
func RankProposals(ps []models.Proposal) []models.Proposal {
	out := make([]models.Proposal, len(ps))
	copy(out, ps)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].SmartMatchScore > out[b].SmartMatchScore
	})
	return out
}

// GroupRanked buckets proposals by job and ranks each bucket.
func GroupRanked(ps []models.Proposal) map[string][]models.Proposal {
	grouped := make(map[string][]models.Proposal)
	for _, p := range ps {
		grouped[p.JobID] = append(grouped[p.JobID], p)
	}
	for id, bucket := range grouped {
		grouped[id] = RankProposals(bucket)
	}
	return grouped
}
