package lead

import (
	"regexp"
	"strings"
)

// SkipToken lets a user leave an optional answer empty.
const SkipToken = "skip"

var (
	linkRe    = regexp.MustCompile(`(?i)https?://\S+`)
	emailRe   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	appleCCRe = regexp.MustCompile(`(?i)apps\.apple\.com/([a-z]{2})/`)
	playCCRe  = regexp.MustCompile(`[?&]gl=([A-Za-z]{2})`)
)

var storeDomains = []string{"apps.apple.com", "play.google.com"}

// IsSkip reports whether text is the skip token, case-insensitively.
func IsSkip(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), SkipToken)
}

// ValidStoreLink reports whether text contains at least one absolute
// http(s) URL pointing at a known app store domain. The check is purely
// syntactic, no network access.
func ValidStoreLink(text string) bool {
	for _, url := range linkRe.FindAllString(text, -1) {
		for _, domain := range storeDomains {
			if strings.Contains(url, domain) {
				return true
			}
		}
	}
	return false
}

// ValidEmail reports whether text is the skip token or a plausible
// local@domain.tld address.
func ValidEmail(text string) bool {
	t := strings.TrimSpace(text)
	return IsSkip(t) || emailRe.MatchString(t)
}

// StoreKind classifies store links by domain for sink cards.
func StoreKind(links string) string {
	text := strings.ToLower(links)
	switch {
	case strings.Contains(text, "apps.apple.com"):
		return "App Store (iOS)"
	case strings.Contains(text, "play.google.com"):
		return "Google Play (Android)"
	}
	return "Unknown"
}

// CountryGuess extracts a two-letter storefront country from an App Store
// path segment or a Google Play gl= query parameter. Empty when neither
// shape is present.
func CountryGuess(links string) string {
	if m := appleCCRe.FindStringSubmatch(links); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := playCCRe.FindStringSubmatch(links); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}
