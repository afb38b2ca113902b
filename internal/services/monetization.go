package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nainix/marketplace-backend/internal/metrics"
	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store"
)

// UpgradePrices lists the mock charge per account upgrade.
var UpgradePrices = map[models.Feature]float64{
	models.FeatureVerificationBadge: 12,
	models.FeatureAIPro:             19,
}

type UpgradeInput struct {
	Role    models.Role `json:"role"`
	Feature string      `json:"feature"`
}

type TransactionSummary struct {
	Feature   models.Feature `json:"feature"`
	AmountUSD float64        `json:"amountUsd"`
	Status    string         `json:"status"`
}

type UpgradeResult struct {
	Monetization   models.Monetization `json:"monetization"`
	VerifiedBadges []string            `json:"verifiedBadges"`
	Transaction    TransactionSummary  `json:"transaction"`
}

type Monetization struct {
	users  store.UserRepository
	ledger store.Ledger
	now    func() time.Time
}

func NewMonetization(users store.UserRepository, ledger store.Ledger) *Monetization {
	return &Monetization{users: users, ledger: ledger, now: time.Now}
}

// Upgrade activates a paid feature on the caller's own account and writes
// the mock charge to the ledger. Repeating a verification upgrade does not
// duplicate the badge.
func (m *Monetization) Upgrade(ctx context.Context, userID string, in UpgradeInput) (*UpgradeResult, error) {
	feature := models.Feature(strings.ToUpper(strings.TrimSpace(in.Feature)))
	if feature == "" {
		return nil, validationErr("feature is required.")
	}
	if !in.Role.Valid() {
		return nil, validationErr("Invalid role.")
	}
	price, ok := UpgradePrices[feature]
	if !ok {
		return nil, validationErr("Invalid upgrade feature.")
	}

	user, err := findUser(ctx, m.users, userID, "User not found.")
	if err != nil {
		return nil, err
	}
	if user.Role != in.Role {
		return nil, forbiddenErr("Role mismatch for this account.")
	}
	if feature == models.FeatureAIPro && user.Role != models.RoleFreelancer {
		return nil, forbiddenErr("AI Pro is available for freelancers only.")
	}

	now := m.now().UTC()
	up := store.Upgrade{At: now}
	switch feature {
	case models.FeatureVerificationBadge:
		up.ActivateVerification = true
		up.AddBadge = models.VerifiedUserBadge
	case models.FeatureAIPro:
		up.ActivateAIPro = true
	}

	updated, err := m.users.ApplyUpgrade(ctx, user.ID, up)
	if err != nil {
		return nil, fmt.Errorf("apply upgrade: %w", err)
	}

	tx := &models.BillingTransaction{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		Feature:   feature,
		AmountUSD: price,
		Currency:  models.CurrencyUSD,
		Status:    models.StatusPaidMock,
		CreatedAt: now,
	}
	if err := m.ledger.Append(ctx, tx); err != nil {
		// The account change above is not rolled back.
		slog.ErrorContext(ctx, "billing record not written", "error", err, "user_id", user.ID, "feature", feature)
		return nil, fmt.Errorf("record charge: %w", err)
	}
	metrics.MockChargesTotal.WithLabelValues(string(feature)).Inc()

	return &UpgradeResult{
		Monetization:   updated.Monetization,
		VerifiedBadges: updated.VerifiedBadges,
		Transaction: TransactionSummary{
			Feature:   feature,
			AmountUSD: price,
			Status:    models.StatusPaidMock,
		},
	}, nil
}

// Transactions lists the caller's billing history, newest first.
func (m *Monetization) Transactions(ctx context.Context, userID string) ([]models.BillingTransaction, error) {
	txs, err := m.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
