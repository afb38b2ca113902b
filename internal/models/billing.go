package models

import (
	"time"
)

type Feature string

const (
	FeatureVerificationBadge Feature = "VERIFICATION_BADGE"
	FeatureAIPro             Feature = "AI_PRO"
	FeatureFeaturedJob       Feature = "FEATURED_JOB"
)

const (
	CurrencyUSD    = "USD"
	StatusPaidMock = "PAID_MOCK"
)

// BillingTransaction is an append-only ledger record. No real payment
// processor is involved; every record carries StatusPaidMock.
type BillingTransaction struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Role      Role      `bson:"role" json:"role"`
	Feature   Feature   `bson:"feature" json:"feature"`
	AmountUSD float64   `bson:"amountUsd" json:"amountUsd"`
	Currency  string    `bson:"currency" json:"currency"`
	Status    string    `bson:"status" json:"status"`
	JobID     string    `bson:"jobId,omitempty" json:"jobId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
