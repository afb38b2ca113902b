package models

import (
	"time"
)

type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleFreelancer Role = "FREELANCER"
)

// Valid reports whether r is one of the two account roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer
}

type Plan string

const (
	PlanFree  Plan = "FREE"
	PlanAIPro Plan = "AI_PRO"
)

// VerifiedUserBadge is added to verifiedBadges by the verification upgrade.
const VerifiedUserBadge = "Verified User"

// Monetization is the paid-feature state of an account.
type Monetization struct {
	Plan                    Plan       `bson:"plan" json:"plan"`
	VerificationBadgeActive bool       `bson:"verificationBadgeActive" json:"verificationBadgeActive"`
	AIProActive             bool       `bson:"aiProActive" json:"aiProActive"`
	AIProActivatedAt        *time.Time `bson:"aiProActivatedAt" json:"aiProActivatedAt"`
}

// DefaultMonetization is the state of a freshly registered account.
func DefaultMonetization() Monetization {
	return Monetization{Plan: PlanFree}
}

type SocialLinks struct {
	GitHub   string `bson:"github,omitempty" json:"github,omitempty"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
	WhatsApp string `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
}

type PortfolioItem struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
}

// RoleDetails holds the onboarding answers. Freelancers fill the first
// group of fields, clients the second.
type RoleDetails struct {
	ProfessionalTitle string   `bson:"professionalTitle,omitempty" json:"professionalTitle,omitempty"`
	ExperienceYears   float64  `bson:"experienceYears,omitempty" json:"experienceYears,omitempty"`
	HourlyRate        float64  `bson:"hourlyRate,omitempty" json:"hourlyRate,omitempty"`
	Skills            []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Availability      string   `bson:"availability,omitempty" json:"availability,omitempty"`
	PortfolioURL      string   `bson:"portfolioUrl,omitempty" json:"portfolioUrl,omitempty"`

	CompanyName    string `bson:"companyName,omitempty" json:"companyName,omitempty"`
	CompanyWebsite string `bson:"companyWebsite,omitempty" json:"companyWebsite,omitempty"`
	CompanySize    string `bson:"companySize,omitempty" json:"companySize,omitempty"`
	HiringGoal     string `bson:"hiringGoal,omitempty" json:"hiringGoal,omitempty"`
	BudgetRange    string `bson:"budgetRange,omitempty" json:"budgetRange,omitempty"`
}

// User is stored in the users collection. The password material is never
// serialized to JSON.
type User struct {
	ID       string `bson:"id" json:"id"`
	Role     Role   `bson:"role" json:"role"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Username string `bson:"username" json:"username"`

	PasswordHash string `bson:"passwordHash,omitempty" json:"-"`
	PasswordSalt string `bson:"passwordSalt,omitempty" json:"-"`

	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`

	Bio            string          `bson:"bio" json:"bio"`
	Skills         []string        `bson:"skills" json:"skills"`
	SocialLinks    SocialLinks     `bson:"socialLinks" json:"socialLinks"`
	AvatarURL      string          `bson:"avatarUrl" json:"avatarUrl"`
	Portfolio      []PortfolioItem `bson:"portfolio" json:"portfolio"`
	VideoIntro     *string         `bson:"videoIntro" json:"videoIntro"`
	RoleDetails    *RoleDetails    `bson:"roleDetails,omitempty" json:"roleDetails,omitempty"`
	VerifiedBadges []string        `bson:"verifiedBadges" json:"verifiedBadges"`
	Monetization   Monetization    `bson:"monetization" json:"monetization"`

	AcceptedTermsAt *time.Time `bson:"acceptedTermsAt,omitempty" json:"acceptedTermsAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != "" && u.PasswordSalt != ""
}

// Normalize fills defaults for documents written before a field existed.
func (u *User) Normalize() {
	if u.Monetization.Plan == "" {
		u.Monetization.Plan = PlanFree
	}
	if u.VerifiedBadges == nil {
		u.VerifiedBadges = []string{}
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.Portfolio == nil {
		u.Portfolio = []PortfolioItem{}
	}
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Bio         *string      `json:"bio,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
}
