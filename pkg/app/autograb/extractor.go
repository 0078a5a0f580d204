package autograb

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

type Format string

const (
	FormatQuery    Format = "query"
	FormatDollar   Format = "dollar"
	FormatAsterisk Format = "asterisk"
	FormatHash     Format = "hash"
	FormatBase64   Format = "base64"
)

// Candidate is one email address found in a URL.
type Candidate struct {
	Email  string
	Format Format
}

const separators = "$*?&#"

var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.[A-Za-z]{2,}`)

	// A base64 run must start right after a separator.
	base64Pattern = regexp.MustCompile(`[$*?&#]([A-Za-z0-9+/=]{20,})`)
)

// Extract returns every distinct email embedded in rawURL, plain matches
// first in order of appearance, then base64-decoded ones.
func Extract(rawURL string) []Candidate {
	decoded := decodeURL(rawURL)

	var out []Candidate
	seen := make(map[string]struct{})
	add := func(email string, format Format) {
		key := strings.ToLower(email)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, Candidate{Email: email, Format: format})
	}

	for _, loc := range emailPattern.FindAllStringIndex(decoded, -1) {
		add(decoded[loc[0]:loc[1]], formatAt(decoded, loc[0]))
	}

	for _, run := range base64Runs(decoded) {
		text, ok := decodeBase64(run)
		if !ok {
			continue
		}
		for _, email := range emailPattern.FindAllString(text, -1) {
			add(email, FormatBase64)
		}
	}

	return out
}

// ExtractEmails is Extract without the format tags.
func ExtractEmails(rawURL string) []string {
	candidates := Extract(rawURL)
	emails := make([]string, 0, len(candidates))
	for _, c := range candidates {
		emails = append(emails, c.Email)
	}
	return emails
}

// First returns the canonical email of rawURL, if any.
func First(rawURL string) (string, bool) {
	candidates := Extract(rawURL)
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0].Email, true
}

func decodeURL(rawURL string) string {
	decoded, err := url.PathUnescape(rawURL)
	if err != nil {
		return rawURL
	}
	return decoded
}

func base64Runs(s string) []string {
	matches := base64Pattern.FindAllStringSubmatch(s, -1)
	runs := make([]string, 0, len(matches))
	for _, m := range matches {
		runs = append(runs, m[1])
	}
	return runs
}

func decodeBase64(run string) (string, bool) {
	if b, err := base64.StdEncoding.DecodeString(run); err == nil {
		return string(b), true
	}
	if b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(run, "=")); err == nil {
		return string(b), true
	}
	return "", false
}

// formatAt tags a plain match by the nearest separator before it.
func formatAt(s string, pos int) Format {
	i := strings.LastIndexAny(s[:pos], separators)
	if i < 0 {
		return FormatQuery
	}
	switch s[i] {
	case '$':
		return FormatDollar
	case '*':
		return FormatAsterisk
	case '#':
		return FormatHash
	default:
		return FormatQuery
	}
}
