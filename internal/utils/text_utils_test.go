package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestProcessor() *TextProcessor {
	return NewTextProcessor(zap.NewNop())
}

func TestTruncateText(t *testing.T) {
	tp := newTestProcessor()

	assert.Equal(t, "short", tp.TruncateText("short", 100))
	assert.Equal(t, "abc", tp.TruncateText("abcdef", 3))
	assert.Equal(t, "unchanged", tp.TruncateText("unchanged", 0))
	assert.Equal(t, "unchanged", tp.TruncateText("unchanged", -1))
}

func TestTruncateTextNeverSplitsRunes(t *testing.T) {
	tp := newTestProcessor()

	// "héllo" — é is two bytes; cutting at 2 would split it
	got := tp.TruncateText("héllo", 2)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "h", got)

	long := strings.Repeat("日", 100)
	got = tp.TruncateText(long, 10)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 10)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := newTestProcessor()

	assert.Equal(t, "clean text", tp.SanitizeUTF8("clean text"))
	assert.Equal(t, "日本語", tp.SanitizeUTF8("日本語"))

	dirty := "ok\xff\xfenot"
	got := tp.SanitizeUTF8(dirty)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "oknot", got)
}

func TestProcessText(t *testing.T) {
	tp := newTestProcessor()

	got := tp.ProcessText("hello\xffworld and then some", 10)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 10)
}
