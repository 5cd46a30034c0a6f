package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{name: "exact lowercase", input: "important", want: CategoryImportant},
		{name: "padded uppercase", input: " PROMOTION ", want: CategoryPromotions},
		{name: "prefix with trailing words", input: "Socially awkward", want: CategorySocial},
		{name: "marketing", input: "Marketing newsletter", want: CategoryMarketing},
		{name: "spam", input: "spam.", want: CategorySpam},
		{name: "promotions plural", input: "Promotions", want: CategoryPromotions},
		{name: "unknown text", input: "garbage", want: CategoryGeneral},
		{name: "empty", input: "", want: CategoryGeneral},
		{name: "whitespace only", input: "   ", want: CategoryGeneral},
		{name: "category name embedded mid-string", input: "this is spam", want: CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.input))
		})
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	inputs := []string{
		"important", "PROMOTION", "social", "marketing", "spam",
		"garbage", "", "Important!", "newsletter",
	}
	for _, input := range inputs {
		once := NormalizeCategory(input)
		twice := NormalizeCategory(string(once))
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestNormalizeCategoryAlwaysInTaxonomy(t *testing.T) {
	inputs := []string{"important", "weird reply", "", "Spam and more", "12345"}
	for _, input := range inputs {
		got := NormalizeCategory(input)
		assert.Contains(t, AllCategories, got, "input %q", input)
	}
}
