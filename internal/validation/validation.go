package validation

import (
	"math"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxTextLength caps free-text fields on submitted entities.
const MaxTextLength = 1000

// MaxNoteLength caps note content in characters.
const MaxNoteLength = 10000

// MaxReviewLength caps rating review text in characters.
const MaxReviewLength = 5000

// SanitizeText drops invalid UTF-8, trims s and truncates it to
// MaxTextLength bytes on a rune boundary. Empty input yields nil so the
// column stores NULL.
func SanitizeText(s string) *string {
	s = strings.TrimSpace(strings.ToValidUTF8(s, ""))
	if s == "" {
		return nil
	}
	if len(s) > MaxTextLength {
		s = s[:MaxTextLength]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return &s
}

// SanitizeList trims each item and drops empty ones.
func SanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if p := SanitizeText(item); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// ValidateEnum reports whether value is one of allowed. Empty values are valid
// because enum columns are optional.
func ValidateEnum(value string, allowed []string) (bool, string) {
	if value == "" || slices.Contains(allowed, value) {
		return true, ""
	}
	return false, "must be one of " + strings.Join(allowed, ", ")
}

// ValidateCoordinates checks latitude and longitude ranges. Either may be nil.
func ValidateCoordinates(lat, long *float64) (bool, string) {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return false, "latitude must be between -90 and 90"
	}
	if long != nil && (*long < -180 || *long > 180) {
		return false, "longitude must be between -180 and 180"
	}
	return true, ""
}

// ValidateNonNegative rejects negative measurements.
func ValidateNonNegative(n *float64) (bool, string) {
	if n != nil && *n < 0 {
		return false, "cannot be negative"
	}
	return true, ""
}

// ValidateNoteContent checks note content is present and within the length cap.
func ValidateNoteContent(content string) (bool, string) {
	if strings.TrimSpace(content) == "" {
		return false, "content is required"
	}
	if utf8.RuneCountInString(content) > MaxNoteLength {
		return false, "content must be 10000 characters or fewer"
	}
	return true, ""
}

// ValidateRating accepts 1.0 to 5.0 in half-star steps.
func ValidateRating(r float64) (bool, string) {
	if r < 1 || r > 5 || r*2 != math.Trunc(r*2) {
		return false, "rating must be between 1.0 and 5.0 in half-star increments"
	}
	return true, ""
}

// ValidateReviewText checks an optional review is within the length cap.
func ValidateReviewText(text string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) > MaxReviewLength {
		return false, "review must be 5000 characters or fewer"
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// BlobKey returns the object key a file URL refers to.
func BlobKey(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(u.Path, "/"), nil
}
