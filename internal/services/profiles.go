package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store"
	"github.com/nainix/marketplace-backend/pkg/utils"
)

const (
	maxBioLength  = 1000
	maxSkillCount = 30
)

// Profiles serves public profiles and the caller's own profile edits.
type Profiles struct {
	users    store.UserRepository
	uploader AvatarUploader
	seed     bool
	now      func() time.Time
}

// NewProfiles builds the profile service. uploader may be nil, in which
// case avatar uploads report the feature as unavailable.
func NewProfiles(users store.UserRepository, uploader AvatarUploader, seedFallback bool) *Profiles {
	return &Profiles{users: users, uploader: uploader, seed: seedFallback, now: time.Now}
}

// Public returns the profile registered under username.
func (p *Profiles) Public(ctx context.Context, username string) (*models.User, error) {
	username = utils.NormalizeUsername(username)
	if username == "" {
		return nil, validationErr("Username is required.")
	}

	user, err := p.users.FindByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if p.seed {
		for _, u := range models.SeedUsers(p.now()) {
			if u.Username == username {
				u := u
				return &u, nil
			}
		}
	}
	return nil, notFoundErr("User not found.")
}

// Update applies profile edits to the caller's account.
func (p *Profiles) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, validationErr("Name cannot be empty.")
		}
		upd.Name = &name
	}
	if upd.Bio != nil {
		bio := strings.TrimSpace(*upd.Bio)
		if len([]rune(bio)) > maxBioLength {
			return nil, validationErr(fmt.Sprintf("Bio must be at most %d characters.", maxBioLength))
		}
		upd.Bio = &bio
	}
	if upd.Skills != nil {
		upd.Skills = cleanList(upd.Skills)
		if len(upd.Skills) > maxSkillCount {
			return nil, validationErr(fmt.Sprintf("At most %d skills are allowed.", maxSkillCount))
		}
	}

	user, err := p.users.UpdateProfile(ctx, userID, upd, p.now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr("User not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UploadAvatar stores a new profile image and points the account at it.
func (p *Profiles) UploadAvatar(ctx context.Context, userID string, file io.Reader) (*models.User, error) {
	if p.uploader == nil {
		return nil, unavailableErr("File uploads are not available.")
	}
	if _, err := findUser(ctx, p.users, userID, "User not found."); err != nil {
		return nil, err
	}

	url, err := p.uploader.UploadAvatar(ctx, userID, file)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	user, err := p.users.SetAvatar(ctx, userID, url, p.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("set avatar: %w", err)
	}
	return user, nil
}
