package models

import (
	"time"
)

// Seed data served only when seed fallback is enabled. IDs are fixed so
// seeded proposals and jobs reference each other across restarts.
const (
	seedUserSarah       = "5f1d7a52-3c1e-4d7e-9a61-0c2b8f4a1001"
	seedUserAlex        = "5f1d7a52-3c1e-4d7e-9a61-0c2b8f4a1002"
	seedUserTechStartup = "5f1d7a52-3c1e-4d7e-9a61-0c2b8f4a1003"

	seedJobChat    = "8b0c6e1a-72a4-4c55-b1f0-3d9e2a7c2001"
	seedJobRecs    = "8b0c6e1a-72a4-4c55-b1f0-3d9e2a7c2002"
	seedJobRNative = "8b0c6e1a-72a4-4c55-b1f0-3d9e2a7c2003"
)

const day = 24 * time.Hour

func timePtr(t time.Time) *time.Time { return &t }

// SeedUsers returns the demo profiles. None of them can sign in.
func SeedUsers(now time.Time) []User {
	video := "https://www.youtube.com/embed/dQw4w9WgXcQ"
	return []User{
		{
			ID:       seedUserSarah,
			Role:     RoleFreelancer,
			Name:     "Sarah Chen",
			Username: "sarahchen",
			Email:    "sarah@example.com",
			Bio:      "Full-stack developer specializing in React and Node.js. 5+ years experience building scalable web applications.",
			Skills:   []string{"React", "Node.js", "TypeScript", "PostgreSQL", "AWS"},
			SocialLinks: SocialLinks{
				GitHub:   "https://github.com/sarahchen",
				LinkedIn: "https://linkedin.com/in/sarahchen",
				WhatsApp: "+1234567890",
			},
			AvatarURL: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=150&h=150&fit=crop",
			Portfolio: []PortfolioItem{{
				Title:       "E-commerce Platform",
				Description: "Built a full-stack e-commerce solution",
				Image:       "https://images.unsplash.com/photo-1557821552-17105176677c?w=400&h=300&fit=crop",
			}},
			VideoIntro:     &video,
			VerifiedBadges: []string{"Top Rated", "Fast Responder"},
			Monetization: Monetization{
				Plan:                    PlanAIPro,
				VerificationBadgeActive: true,
				AIProActive:             true,
				AIProActivatedAt:        timePtr(now.Add(-2 * day)),
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       seedUserAlex,
			Role:     RoleFreelancer,
			Name:     "Alex Rodriguez",
			Username: "alexdev",
			Email:    "alex@example.com",
			Bio:      "AI/ML Engineer with expertise in Python, TensorFlow, and deep learning.",
			Skills:   []string{"Python", "TensorFlow", "PyTorch", "NLP", "Computer Vision"},
			SocialLinks: SocialLinks{
				GitHub:   "https://github.com/alexdev",
				LinkedIn: "https://linkedin.com/in/alexdev",
			},
			AvatarURL:      "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop",
			Portfolio:      []PortfolioItem{},
			VerifiedBadges: []string{"AI Expert"},
			Monetization:   DefaultMonetization(),
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             seedUserTechStartup,
			Role:           RoleClient,
			Name:           "Tech Startup Inc",
			Username:       "techstartup",
			Email:          "contact@techstartup.com",
			Bio:            "Series A startup looking for talented developers",
			Skills:         []string{},
			AvatarURL:      "https://images.unsplash.com/photo-1560179707-f14e90ef3623?w=150&h=150&fit=crop",
			Portfolio:      []PortfolioItem{},
			VerifiedBadges: []string{"Verified Client"},
			Monetization: Monetization{
				Plan:                    PlanFree,
				VerificationBadgeActive: true,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func SeedJobs(now time.Time) []Job {
	return []Job{
		{
			ID:             seedJobChat,
			ClientID:       seedUserTechStartup,
			Title:          "Build a Real-time Chat Application",
			Description:    "Need an experienced developer to build a real-time chat app with WebSocket support, user authentication, and message history.",
			Category:       CategoryWebDev,
			BudgetMin:      2000,
			BudgetMax:      5000,
			IsUrgent:       true,
			RequiredSkills: []string{"React", "Node.js", "WebSocket", "MongoDB"},
			IsFeatured:     true,
			FeaturedUntil:  timePtr(now.Add(3 * day)),
			Status:         JobStatusOpen,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             seedJobRecs,
			ClientID:       seedUserTechStartup,
			Title:          "AI-Powered Content Recommendation Engine",
			Description:    "Looking for an ML engineer to develop a content recommendation system using collaborative filtering and deep learning.",
			Category:       CategoryAIML,
			BudgetMin:      5000,
			BudgetMax:      10000,
			RequiredSkills: []string{"Python", "TensorFlow", "Machine Learning", "NLP"},
			Status:         JobStatusOpen,
			CreatedAt:      now.Add(-day),
			UpdatedAt:      now.Add(-day),
		},
		{
			ID:             seedJobRNative,
			ClientID:       seedUserTechStartup,
			Title:          "Mobile App Development - React Native",
			Description:    "Need a mobile developer to build a cross-platform app for iOS and Android with social features.",
			Category:       CategoryAppDev,
			BudgetMin:      3000,
			BudgetMax:      7000,
			IsUrgent:       true,
			RequiredSkills: []string{"React Native", "Firebase", "Redux", "REST API"},
			IsFeatured:     true,
			FeaturedUntil:  timePtr(now.Add(day)),
			Status:         JobStatusOpen,
			CreatedAt:      now.Add(-time.Hour),
			UpdatedAt:      now.Add(-time.Hour),
		},
	}
}

func SeedProposals(now time.Time) []Proposal {
	return []Proposal{
		{
			ID:              "c3a9e0f4-5b61-4f3a-8d2e-6a7b9c1d3001",
			JobID:           seedJobChat,
			FreelancerID:    seedUserSarah,
			Pitch:           "I have 5+ years of experience building real-time applications. I can deliver this in 2 weeks with clean, scalable code.",
			EstimatedDays:   14,
			Price:           4000,
			SmartMatchScore: 95,
			CreatedAt:       now,
		},
		{
			ID:              "c3a9e0f4-5b61-4f3a-8d2e-6a7b9c1d3002",
			JobID:           seedJobRecs,
			FreelancerID:    seedUserAlex,
			Pitch:           "AI/ML specialist here. Built similar recommendation systems for e-commerce. Can start immediately.",
			EstimatedDays:   30,
			Price:           8000,
			SmartMatchScore: 92,
			CreatedAt:       now,
		},
	}
}
