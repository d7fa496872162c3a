package knowledge

import (
	"time"

	"github.com/cloo-solutions/supporthub/internal/domain"
)

func seedDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

// SeedDocuments returns the reference knowledge base loaded into an empty deployment.
func SeedDocuments() []domain.Document {
	return []domain.Document{
		{
			ID:        1,
			Title:     "Password Reset Guide",
			Content:   "To reset your password: 1) Go to the login page 2) Click 'Forgot Password' 3) Enter your email 4) Check your email for reset link 5) Follow the instructions in the email. Password must be at least 8 characters with uppercase, lowercase, and numbers.",
			Type:      domain.DocumentTypeFAQ,
			UpdatedAt: seedDate("2024-01-15"),
		},
		{
			ID:        2,
			Title:     "Pricing Plans",
			Content:   "We offer three pricing plans: Basic ($9/month) - Up to 5 users, 10GB storage; Pro ($29/month) - Up to 25 users, 100GB storage, priority support; Enterprise ($99/month) - Unlimited users, 1TB storage, dedicated support, custom integrations.",
			Type:      domain.DocumentTypeProductInfo,
			UpdatedAt: seedDate("2024-01-10"),
		},
		{
			ID:        3,
			Title:     "Account Setup",
			Content:   "Setting up your account: 1) Sign up with email 2) Verify email address 3) Complete profile information 4) Choose your plan 5) Add team members if needed. You can upgrade or downgrade your plan anytime from the billing section.",
			Type:      domain.DocumentTypeTutorial,
			UpdatedAt: seedDate("2024-01-08"),
		},
		{
			ID:        4,
			Title:     "API Documentation",
			Content:   "Our REST API supports GET, POST, PUT, DELETE operations. Authentication uses API keys. Rate limit is 1000 requests per hour for Basic, 5000 for Pro, unlimited for Enterprise. All responses are in JSON format. Base URL: https://api.example.com/v1/",
			Type:      domain.DocumentTypeTechnical,
			UpdatedAt: seedDate("2024-01-05"),
		},
		{
			ID:        5,
			Title:     "Troubleshooting",
			Content:   "Common issues: 1) Login problems - Clear browser cache, check caps lock 2) Slow performance - Check internet connection, try different browser 3) File upload issues - Check file size (max 10MB), supported formats: PDF, DOC, JPG, PNG 4) Payment issues - Verify card details, check with bank",
			Type:      domain.DocumentTypeSupport,
			UpdatedAt: seedDate("2024-01-03"),
		},
	}
}

// SeedStore returns a Store holding SeedDocuments.
func SeedStore() *Store {
	return MustNewStore(SeedDocuments()...)
}
