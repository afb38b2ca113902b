package models

import (
	"time"
)

// MaxPitchLength is the pitch length kept on submission; longer input is cut.
const MaxPitchLength = 300

type Proposal struct {
	ID              string    `bson:"id" json:"id"`
	JobID           string    `bson:"jobId" json:"jobId"`
	FreelancerID    string    `bson:"freelancerId" json:"freelancerId"`
	Pitch           string    `bson:"pitch" json:"pitch"`
	EstimatedDays   int       `bson:"estimatedDays" json:"estimatedDays"`
	Price           float64   `bson:"price" json:"price"`
	SmartMatchScore int       `bson:"smartMatchScore" json:"smartMatchScore"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}
