// Package memory provides mutex-guarded, in-process implementations of the
// store interfaces for tests and local runs without MongoDB.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store"
)

var (
	_ store.UserRepository     = (*Users)(nil)
	_ store.JobRepository      = (*Jobs)(nil)
	_ store.ProposalRepository = (*Proposals)(nil)
	_ store.Ledger             = (*Ledger)(nil)
)

type Users struct {
	mu    sync.RWMutex
	byID  map[string]*models.User
	order []string
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Skills = append([]string(nil), u.Skills...)
	cp.VerifiedBadges = append([]string(nil), u.VerifiedBadges...)
	cp.Portfolio = append([]models.PortfolioItem(nil), u.Portfolio...)
	if u.RoleDetails != nil {
		rd := *u.RoleDetails
		rd.Skills = append([]string(nil), u.RoleDetails.Skills...)
		cp.RoleDetails = &rd
	}
	cp.Normalize()
	return &cp
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.ID == u.ID || existing.Email == u.Email || existing.Username == u.Username {
			return store.ErrDuplicate
		}
	}
	s.byID[u.ID] = cloneUser(u)
	s.order = append(s.order, u.ID)
	return nil
}

func (s *Users) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if u := s.byID[id]; match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s *Users) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Username == username })
}

func (s *Users) Exists(_ context.Context, field store.UserField, value string) (bool, error) {
	_, err := s.find(func(u *models.User) bool {
		switch field {
		case store.FieldEmail:
			return u.Email == value
		case store.FieldUsername:
			return u.Username == value
		case store.FieldPhone:
			return u.Phone == value
		}
		return false
	})
	if err == store.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *Users) update(id string, apply func(u *models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	apply(u)
	return cloneUser(u), nil
}

func (s *Users) ApplyUpgrade(_ context.Context, id string, up store.Upgrade) (*models.User, error) {
	return s.update(id, func(u *models.User) {
		u.Normalize()
		if up.ActivateVerification {
			u.Monetization.VerificationBadgeActive = true
		}
		if up.AddBadge != "" && !contains(u.VerifiedBadges, up.AddBadge) {
			u.VerifiedBadges = append(u.VerifiedBadges, up.AddBadge)
		}
		if up.ActivateAIPro {
			at := up.At
			u.Monetization.Plan = models.PlanAIPro
			u.Monetization.AIProActive = true
			u.Monetization.AIProActivatedAt = &at
		}
		u.UpdatedAt = up.At
	})
}

func (s *Users) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate, at time.Time) (*models.User, error) {
	return s.update(id, func(u *models.User) {
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Bio != nil {
			u.Bio = *upd.Bio
		}
		if upd.Skills != nil {
			u.Skills = append([]string(nil), upd.Skills...)
		}
		if upd.SocialLinks != nil {
			u.SocialLinks = *upd.SocialLinks
		}
		u.UpdatedAt = at
	})
}

func (s *Users) SetAvatar(_ context.Context, id, url string, at time.Time) (*models.User, error) {
	return s.update(id, func(u *models.User) {
		u.AvatarURL = url
		u.UpdatedAt = at
	})
}

type Jobs struct {
	mu   sync.RWMutex
	jobs []*models.Job
}

func NewJobs() *Jobs {
	return &Jobs{}
}

func cloneJob(j *models.Job) models.Job {
	cp := *j
	cp.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	if j.FeaturedUntil != nil {
		t := *j.FeaturedUntil
		cp.FeaturedUntil = &t
	}
	return cp
}

func (s *Jobs) Create(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.jobs {
		if existing.ID == j.ID {
			return store.ErrDuplicate
		}
	}
	cp := cloneJob(j)
	s.jobs = append(s.jobs, &cp)
	return nil
}

func (s *Jobs) FindByID(_ context.Context, id string) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == id {
			cp := cloneJob(j)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Jobs) List(_ context.Context) ([]models.Job, error) {
	s.mu.RLock()
	out := make([]models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, cloneJob(j))
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (s *Jobs) ListIDsByClient(_ context.Context, clientID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0)
	for _, j := range s.jobs {
		if j.ClientID == clientID {
			ids = append(ids, j.ID)
		}
	}
	return ids, nil
}

func (s *Jobs) SetFeatured(_ context.Context, id string, until, at time.Time) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.ID == id {
			j.IsFeatured = true
			j.FeaturedUntil = &until
			j.UpdatedAt = at
			cp := cloneJob(j)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Jobs) ExpireFeatured(_ context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, j := range s.jobs {
		if j.IsFeatured && j.FeaturedUntil != nil && !j.FeaturedUntil.After(now) {
			j.IsFeatured = false
			j.UpdatedAt = now
			ids = append(ids, j.ID)
		}
	}
	return ids, nil
}

type Proposals struct {
	mu        sync.RWMutex
	proposals []models.Proposal
}

func NewProposals() *Proposals {
	return &Proposals{}
}

func (s *Proposals) Create(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.proposals {
		if existing.ID == p.ID {
			return store.ErrDuplicate
		}
	}
	s.proposals = append(s.proposals, *p)
	return nil
}

func (s *Proposals) ListByFreelancer(_ context.Context, freelancerID string) ([]models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Proposal, 0)
	for i := len(s.proposals) - 1; i >= 0; i-- {
		if s.proposals[i].FreelancerID == freelancerID {
			out = append(out, s.proposals[i])
		}
	}
	return out, nil
}

func (s *Proposals) ListByJobs(_ context.Context, jobIDs []string) ([]models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Proposal, 0)
	for _, p := range s.proposals {
		if contains(jobIDs, p.JobID) {
			out = append(out, p)
		}
	}
	return out, nil
}

type Ledger struct {
	mu  sync.RWMutex
	txs []models.BillingTransaction
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(_ context.Context, tx *models.BillingTransaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = append(l.txs, *tx)
	return nil
}

func (l *Ledger) ListByUser(_ context.Context, userID string) ([]models.BillingTransaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.BillingTransaction, 0)
	for i := len(l.txs) - 1; i >= 0; i-- {
		if l.txs[i].UserID == userID {
			out = append(out, l.txs[i])
		}
	}
	return out, nil
}

// Len reports how many records were appended.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
