package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nainix/marketplace-backend/internal/metrics"
	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store"
	"github.com/nainix/marketplace-backend/pkg/utils"
)

const defaultAvatarURL = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"

// RegisterInput is the registration form.
type RegisterInput struct {
	Name        string              `json:"name" validate:"required"`
	Email       string              `json:"email" validate:"required"`
	Username    string              `json:"username" validate:"required"`
	Password    string              `json:"password" validate:"required,min=6"`
	Role        models.Role         `json:"role" validate:"required"`
	Phone       string              `json:"phone"`
	Country     string              `json:"country"`
	State       string              `json:"state"`
	City        string              `json:"city"`
	Bio         string              `json:"bio"`
	AcceptTerms bool                `json:"acceptTerms"`
	RoleDetails *models.RoleDetails `json:"roleDetails"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Accounts handles registration, password login and session user lookup.
type Accounts struct {
	users store.UserRepository
	now   func() time.Time
}

func NewAccounts(users store.UserRepository) *Accounts {
	return &Accounts{users: users, now: time.Now}
}

// Register validates the form, re-checks uniqueness and creates the user.
// The unique indexes on email and username settle any race with a
// concurrent registration: the loser gets a conflict.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	in.Username = utils.NormalizeUsername(in.Username)
	in.Phone = utils.NormalizePhone(in.Phone)

	if err := utils.ValidateStruct(in); err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			return nil, validationErr(ve.Message)
		}
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, validationErr("Invalid role selected.")
	}
	if !utils.IsValidEmail(in.Email) {
		return nil, validationErr("Invalid email format.")
	}
	if err := utils.ValidateUsername(in.Username); err != nil {
		return nil, validationErr(err.(*utils.ValidationError).Message)
	}
	if in.Phone != "" && !utils.IsValidPhone(in.Phone) {
		return nil, validationErr("Invalid phone format.")
	}

	if err := a.ensureUnique(ctx, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, salt, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := a.now().UTC()
	user := &models.User{
		ID:             uuid.NewString(),
		Role:           in.Role,
		Name:           in.Name,
		Email:          in.Email,
		Username:       in.Username,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		Phone:          in.Phone,
		Country:        strings.TrimSpace(in.Country),
		State:          strings.TrimSpace(in.State),
		City:           strings.TrimSpace(in.City),
		Bio:            strings.TrimSpace(in.Bio),
		Skills:         []string{},
		AvatarURL:      fmt.Sprintf(defaultAvatarURL, in.Username),
		Portfolio:      []models.PortfolioItem{},
		RoleDetails:    in.RoleDetails,
		VerifiedBadges: []string{},
		Monetization:   models.DefaultMonetization(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.RoleDetails != nil && in.Role == models.RoleFreelancer {
		user.Skills = cleanList(in.RoleDetails.Skills)
	}
	if in.AcceptTerms {
		user.AcceptedTermsAt = &now
	}

	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			metrics.AuthRegistrationsTotal.WithLabelValues("conflict").Inc()
			// Lost a race with a concurrent registration; report which field.
			if uerr := a.ensureUnique(ctx, in.Email, in.Username); uerr != nil {
				return nil, uerr
			}
			return nil, conflictErr("Account already exists.")
		}
		metrics.AuthRegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.AuthRegistrationsTotal.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (a *Accounts) ensureUnique(ctx context.Context, email, username string) error {
	taken, err := a.users.Exists(ctx, store.FieldEmail, email)
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if taken {
		return conflictErr("Email is already registered.")
	}
	taken, err = a.users.Exists(ctx, store.FieldUsername, username)
	if err != nil {
		return fmt.Errorf("lookup username: %w", err)
	}
	if taken {
		return conflictErr("Username is already taken.")
	}
	return nil
}

// Login checks the password for the account registered under email.
func (a *Accounts) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	email := utils.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, validationErr("Email and password are required.")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		metrics.AuthLoginsTotal.WithLabelValues("unknown_account").Inc()
		return nil, notFoundErr("No account found with this email.")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.HasPassword() {
		return nil, validationErr("This account cannot be used for password login.")
	}
	if !utils.VerifyPassword(in.Password, user.PasswordSalt, user.PasswordHash) {
		metrics.AuthLoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, unauthorizedErr("Incorrect password.")
	}

	metrics.AuthLoginsTotal.WithLabelValues("ok").Inc()
	return user, nil
}

// Me loads the account behind a verified session.
func (a *Accounts) Me(ctx context.Context, userID string) (*models.User, error) {
	return findUser(ctx, a.users, userID, "User not found")
}

func findUser(ctx context.Context, users store.UserRepository, id, missing string) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundErr(missing)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
