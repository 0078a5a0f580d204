package autograb_test

import (
	"testing"

	"github.com/NeuralTrust/TrustCloak/pkg/app/autograb"
	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   []string
	}{
		{
			name:   "query parameter",
			rawURL: "https://x.com/r/abc?email=test@example.com",
			want:   []string{"test@example.com"},
		},
		{
			name:   "dollar base64",
			rawURL: "https://x.com/r/abc$dGVzdEB0ZXN0LmNvbQ==",
			want:   []string{"test@test.com"},
		},
		{
			name:   "percent encoded at sign",
			rawURL: "https://x.com/r/abc?email=jane.doe%40corp.example.org",
			want:   []string{"jane.doe@corp.example.org"},
		},
		{
			name:   "asterisk plain",
			rawURL: "https://x.com/r/abc*john+tag@mail.example.net",
			want:   []string{"john+tag@mail.example.net"},
		},
		{
			name:   "duplicates differ only in case",
			rawURL: "https://x.com/r/abc?a=Test@Example.com&b=test@example.com",
			want:   []string{"Test@Example.com"},
		},
		{
			name:   "plain and base64 union",
			rawURL: "https://x.com/r/abc?to=first@example.com&dGVzdEB0ZXN0LmNvbQ==",
			want:   []string{"first@example.com", "test@test.com"},
		},
		{
			name:   "base64 that is not an email",
			rawURL: "https://x.com/r/abc$aGVsbG8gd29ybGQgaGVsbG8gd29ybGQ=",
			want:   []string{},
		},
		{
			name:   "invalid base64 is skipped",
			rawURL: "https://x.com/r/abc$!!!!notbase64$AAAAAAAAAAAAAAAAAAAAA=A",
			want:   []string{},
		},
		{
			name:   "no email",
			rawURL: "https://x.com/r/abc?ref=campaign&id=42",
			want:   []string{},
		},
		{
			name:   "tld too short",
			rawURL: "https://x.com/r/abc?email=user@host.c",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := autograb.ExtractEmails(tt.rawURL)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_FormatTags(t *testing.T) {
	tests := []struct {
		rawURL string
		format autograb.Format
	}{
		{rawURL: "https://x.com/r?email=a@example.com", format: autograb.FormatQuery},
		{rawURL: "https://x.com/r$a@example.com", format: autograb.FormatDollar},
		{rawURL: "https://x.com/r*a@example.com", format: autograb.FormatAsterisk},
		{rawURL: "https://x.com/r#a@example.com", format: autograb.FormatHash},
		{rawURL: "https://x.com/r$YUBleGFtcGxlLmNvbWFiY2Q=", format: autograb.FormatBase64},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := autograb.Extract(tt.rawURL)
			if assert.Len(t, got, 1) {
				assert.Equal(t, tt.format, got[0].Format)
			}
		})
	}
}

func TestFirst(t *testing.T) {
	email, ok := autograb.First("https://x.com/r?to=first@example.com&cc=second@example.com")
	assert.True(t, ok)
	assert.Equal(t, "first@example.com", email)

	_, ok = autograb.First("https://x.com/r")
	assert.False(t, ok)
}
