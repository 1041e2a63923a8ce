package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "plain address", input: "user@example.com", want: "user@example.com", ok: true},
		{name: "uppercase lowered", input: "User@EXAMPLE.Com", want: "user@example.com", ok: true},
		{name: "dots stripped from local part", input: "a.b.c@example.com", want: "abc@example.com", ok: true},
		{name: "plus tag dropped", input: "a.b+tag@EXAMPLE.com", want: "ab@example.com", ok: true},
		{name: "everything after first plus dropped", input: "a+b+c@example.com", want: "a@example.com", ok: true},
		{name: "leading plus kept", input: "+lead@example.com", want: "+lead@example.com", ok: true},
		{name: "dots in domain kept", input: "user@mail.example.com", want: "user@mail.example.com", ok: true},
		{name: "no at sign", input: "no-at-sign", ok: false},
		{name: "two at signs", input: "a@b@c.com", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalizeEmail(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCanonicalizeEmailIdempotent(t *testing.T) {
	inputs := []string{
		"user@example.com",
		"a.b+tag@EXAMPLE.com",
		"+lead@example.com",
		"first.last+news@sub.domain.org",
	}
	for _, in := range inputs {
		once, ok := CanonicalizeEmail(in)
		require.True(t, ok, in)
		twice, ok := CanonicalizeEmail(once)
		require.True(t, ok, once)
		assert.Equal(t, once, twice)
	}
}

func TestMatchesEmailShape(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last@example.org", true},
		{"user+tag@example.io", true},
		{"user@example.co", true},
		{"user@example.de", true},
		{"user@sub.example.net", true},
		{"no-at-sign", false},
		{"user@", false},
		{"@example.com", false},
		{"user@example", false},
		{"user@example.invalidtld", false},
		{"user@-example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesEmailShape(tt.input), tt.input)
		})
	}
}
