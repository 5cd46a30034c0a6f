package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsImportant(t *testing.T) {
	checker := NewChecker([]string{"Corp.com", " partner.org "}, zap.NewNop())

	tests := []struct {
		name string
		from string
		want bool
	}{
		{name: "bare address", from: "boss@corp.com", want: true},
		{name: "display name form", from: "Alice <alice@corp.com>", want: true},
		{name: "uppercase domain", from: "bob@CORP.COM", want: true},
		{name: "second domain", from: "carol@partner.org", want: true},
		{name: "unlisted domain", from: "spam@elsewhere.com", want: false},
		{name: "subdomain does not match", from: "x@mail.corp.com", want: false},
		{name: "no at sign", from: "not-an-address", want: false},
		{name: "multiple at signs", from: "a@b@corp.com", want: false},
		{name: "empty", from: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.IsImportant(tt.from))
		})
	}
}

func TestIsImportantEmptyList(t *testing.T) {
	checker := NewChecker(nil, zap.NewNop())
	assert.False(t, checker.IsImportant("anyone@corp.com"))
}
