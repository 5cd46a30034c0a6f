package core

import (
	"strings"
	"time"
)

// Category is one of the six fixed labels assigned to an email.
type Category string

const (
	CategoryImportant  Category = "Important"
	CategoryPromotions Category = "Promotions"
	CategorySocial     Category = "Social"
	CategoryMarketing  Category = "Marketing"
	CategorySpam       Category = "Spam"
	CategoryGeneral    Category = "General"
)

// AllCategories lists the full taxonomy in display order.
var AllCategories = []Category{
	CategoryImportant,
	CategoryPromotions,
	CategorySocial,
	CategoryMarketing,
	CategorySpam,
	CategoryGeneral,
}

// NormalizeCategory maps a free-text model reply onto the fixed taxonomy.
// Matching is by lowercase prefix; anything unrecognized becomes General,
// so the result is always a valid Category.
func NormalizeCategory(s string) Category {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(t, "important"):
		return CategoryImportant
	case strings.HasPrefix(t, "promotion"):
		return CategoryPromotions
	case strings.HasPrefix(t, "social"):
		return CategorySocial
	case strings.HasPrefix(t, "marketing"):
		return CategoryMarketing
	case strings.HasPrefix(t, "spam"):
		return CategorySpam
	default:
		return CategoryGeneral
	}
}

// EmailItem is a decoded mailbox message ready for classification
type EmailItem struct {
	ID       string `json:"id"`
	From     string `json:"from,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	BodyText string `json:"bodyText,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Classification maps message ids to their assigned category
type Classification map[string]Category

// TokenSet holds the OAuth credentials for one user session
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // unix seconds
	Scope        string
}

// CacheEntry is a cached classification result for a single message
type CacheEntry struct {
	MessageID string
	Category  Category
	LastSeen  time.Time
	ExpiresAt time.Time
}
