package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/mikey/llm-mail-triage/internal/core"
)

var (
	styleRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// decodeMessage flattens a raw Gmail message into an EmailItem
func decodeMessage(msg *gmail.Message) core.EmailItem {
	item := core.EmailItem{
		ID:      msg.Id,
		Snippet: msg.Snippet,
	}
	if msg.Payload == nil {
		return item
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			if item.Subject == "" {
				item.Subject = h.Value
			}
		case "from":
			if item.From == "" {
				item.From = h.Value
			}
		case "date":
			if item.Date == "" {
				item.Date = h.Value
			}
		}
	}

	item.BodyText = ExtractText(msg.Payload)
	return item
}

// ExtractText walks the MIME part tree depth-first in preorder and returns
// the first non-empty decoded text body. text/plain parts are returned as
// is; text/html parts are stripped down to their visible text.
func ExtractText(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}

	if strings.HasPrefix(part.MimeType, "text/plain") && part.Body != nil && part.Body.Data != "" {
		return DecodeBase64URL(part.Body.Data)
	}
	if strings.HasPrefix(part.MimeType, "text/html") && part.Body != nil && part.Body.Data != "" {
		return StripHTML(DecodeBase64URL(part.Body.Data))
	}

	for _, child := range part.Parts {
		if text := ExtractText(child); text != "" {
			return text
		}
	}

	return ""
}

// DecodeBase64URL decodes the URL-safe base64 encoding Gmail uses for body
// bytes. Malformed input yields an empty string so a single bad message
// cannot fail a whole fetch.
func DecodeBase64URL(s string) string {
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return string(b)
	}
	return ""
}

// StripHTML removes style and script blocks including their content, strips
// the remaining tags, and collapses whitespace runs to single spaces.
func StripHTML(h string) string {
	h = styleRe.ReplaceAllString(h, "")
	h = scriptRe.ReplaceAllString(h, "")
	h = tagRe.ReplaceAllString(h, " ")
	h = spaceRe.ReplaceAllString(h, " ")
	return strings.TrimSpace(h)
}
