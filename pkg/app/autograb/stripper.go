package autograb

import (
	"regexp"
	"strings"
)

var (
	// Also catches addresses whose @ is still percent-encoded.
	strippablePattern = regexp.MustCompile(`[\w.+-]+(?:@|%40)[\w.-]+\.[A-Za-z]{2,}`)

	emptyPairPattern     = regexp.MustCompile(`([?&#$*])[^?&#$*=/]+=&`)
	trailingEmptyPattern = regexp.MustCompile(`([?&#$*])[^?&#$*=/]+=$`)
	doubleAmpPattern     = regexp.MustCompile(`&{2,}`)
)

// StripEmails removes every email from a parameter string and tidies the
// separators left behind. A string without emails is returned untouched.
func StripEmails(params string) string {
	out := stripBase64Emails(params)
	out = strippablePattern.ReplaceAllString(out, "")
	if out == params {
		return params
	}
	// Matches consume the trailing &, so adjacent empty pairs need another pass.
	for {
		next := emptyPairPattern.ReplaceAllString(out, "$1")
		if next == out {
			break
		}
		out = next
	}
	out = trailingEmptyPattern.ReplaceAllString(out, "$1")
	out = doubleAmpPattern.ReplaceAllString(out, "&")
	if strings.HasPrefix(out, "?&") {
		out = "?" + out[2:]
	}
	return strings.TrimRight(out, separators)
}

// ContainsEmail reports whether s still carries anything StripEmails removes.
func ContainsEmail(s string) bool {
	if strippablePattern.MatchString(s) {
		return true
	}
	for _, run := range base64Runs(s) {
		if text, ok := decodeBase64(run); ok && emailPattern.MatchString(text) {
			return true
		}
	}
	return false
}

func stripBase64Emails(s string) string {
	return base64Pattern.ReplaceAllStringFunc(s, func(match string) string {
		text, ok := decodeBase64(match[1:])
		if !ok || !emailPattern.MatchString(text) {
			return match
		}
		return match[:1]
	})
}
