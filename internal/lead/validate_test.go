package lead

import "testing"

func TestValidStoreLink(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"check out https://apps.apple.com/us/app/foo/id123", true},
		{"https://play.google.com/store/apps/details?id=com.foo", true},
		{"http://apps.apple.com/app/id1", true},
		{"two: https://example.com and https://play.google.com/store/apps/details?id=x", true},
		{"https://example.com/app", false},
		{"apps.apple.com/us/app/foo", false},
		{"no links here", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidStoreLink(tc.text); got != tc.want {
			t.Errorf("ValidStoreLink(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"a@b.co", true},
		{"first.last+tag@sub.example.org", true},
		{"skip", true},
		{"SKIP", true},
		{" skip ", true},
		{"not-an-email", false},
		{"a@b", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidEmail(tc.text); got != tc.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestStoreKind(t *testing.T) {
	cases := []struct {
		links string
		want  string
	}{
		{"https://apps.apple.com/us/app/foo/id123", "App Store (iOS)"},
		{"https://PLAY.GOOGLE.COM/store/apps/details?id=x", "Google Play (Android)"},
		{"https://example.com", "Unknown"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		if got := StoreKind(tc.links); got != tc.want {
			t.Errorf("StoreKind(%q) = %q, want %q", tc.links, got, tc.want)
		}
	}
}

func TestCountryGuess(t *testing.T) {
	cases := []struct {
		links string
		want  string
	}{
		{"https://apps.apple.com/fr/app/foo/id123", "FR"},
		{"https://apps.apple.com/US/app/foo/id123", "US"},
		{"https://play.google.com/store/apps/details?id=x&gl=jp", "JP"},
		{"https://play.google.com/store/apps/details?gl=DE", "DE"},
		{"https://apps.apple.com/app/id123", ""},
		{"https://example.com", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CountryGuess(tc.links); got != tc.want {
			t.Errorf("CountryGuess(%q) = %q, want %q", tc.links, got, tc.want)
		}
	}
}
