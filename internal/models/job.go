package models

import (
	"time"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "OPEN"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
)

// Job categories offered by the posting form.
const (
	CategoryWebDev     = "Web Development"
	CategoryAppDev     = "App Development"
	CategoryAIML       = "AI/ML"
	CategoryBlockchain = "Blockchain"
	CategoryDevOps     = "DevOps"
	CategoryBackend    = "Backend Development"
	CategoryFrontend   = "Frontend Development"
)

var JobCategories = []string{
	CategoryWebDev,
	CategoryAppDev,
	CategoryAIML,
	CategoryBlockchain,
	CategoryDevOps,
	CategoryBackend,
	CategoryFrontend,
}

func IsJobCategory(c string) bool {
	for _, v := range JobCategories {
		if v == c {
			return true
		}
	}
	return false
}

type Job struct {
	ID             string     `bson:"id" json:"id"`
	ClientID       string     `bson:"clientId" json:"clientId"`
	Title          string     `bson:"title" json:"title"`
	Description    string     `bson:"description" json:"description"`
	Category       string     `bson:"category" json:"category"`
	BudgetMin      float64    `bson:"budgetMin" json:"budgetMin"`
	BudgetMax      float64    `bson:"budgetMax" json:"budgetMax"`
	RequiredSkills []string   `bson:"requiredSkills" json:"requiredSkills"`
	IsUrgent       bool       `bson:"isUrgent" json:"isUrgent"`
	IsFeatured     bool       `bson:"isFeatured" json:"isFeatured"`
	FeaturedUntil  *time.Time `bson:"featuredUntil" json:"featuredUntil"`
	Status         JobStatus  `bson:"status" json:"status"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// FeaturedAt reports whether the job's boost is live at now. A featured job
// without an end time stays featured.
func (j *Job) FeaturedAt(now time.Time) bool {
	if !j.IsFeatured {
		return false
	}
	return j.FeaturedUntil == nil || j.FeaturedUntil.After(now)
}

// JobFilter holds listing criteria. Zero values disable a criterion.
type JobFilter struct {
	UrgentOnly bool
	Category   string
	BudgetMin  *float64
	BudgetMax  *float64
	Skills     []string
}
