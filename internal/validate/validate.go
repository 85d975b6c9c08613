package validate

import (
	"regexp"
	"strconv"
	"strings"

	"draftshop/internal/domain"
)

var (
	reVariant = regexp.MustCompile(`^[a-z]{1,32}$`)
	reURI     = regexp.MustCompile(`^[A-Za-z0-9._~:/?#\[\]@!$&'()*+,;=%-]{1,512}$`)
)

// ID parses a positive numeric record id.
func ID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 19 {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Variant normalises a variant tag from a path segment.
func Variant(s string) (domain.Variant, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return domain.Variant(s), reVariant.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Text caps free-form text such as descriptions.
func Text(s string) (string, bool) {
	return s, len(s) <= 4000
}

// Photos checks each photo reference and the size of the list.
func Photos(list []string) bool {
	if len(list) > 20 {
		return false
	}
	for _, p := range list {
		if !reURI.MatchString(p) {
			return false
		}
	}
	return true
}
