package fields

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses bounds how many layers of entity encoding are peeled.
const maxSanitizePasses = 8

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	markupChars = strings.NewReplacer("<", "", ">", "", "&", "")
)

// SanitizeText strips markup from free-text input. Entities produced by the
// sanitizer are unescaped again so plain text such as "João & Maria" is kept
// as typed. Unescaping can expose encoded markup, so passes repeat until the
// value is stable; input still changing after maxSanitizePasses loses its
// markup characters.
func SanitizeText(raw string) string {
	if raw == "" {
		return ""
	}
	s := raw
	for range maxSanitizePasses {
		next := html.UnescapeString(textSanitizer().Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
	return SanitizeText(markupChars.Replace(s))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
