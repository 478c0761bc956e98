package services

import (
	"errors"
	"strings"
	"testing"
)

func TestIsRateLimitError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"429", errors.New("googleapi: Error 429: Resource exhausted"), true},
		{"quota", errors.New("Quota exceeded for requests"), true},
		{"rate_limit", errors.New("rate limit hit, retry later"), true},
		{"too_many", errors.New("Too Many Requests"), true},
		{"other", errors.New("connection refused"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRateLimitError(tc.err); got != tc.want {
				t.Errorf("IsRateLimitError(%v)=%v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsAIErrorMessage(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"no_api_key", ErrMsgNoAPIKey, true},
		{"rate_limit", ErrMsgRateLimit, true},
		{"generation", ErrMsgGeneration(errors.New("boom")), true},
		{"real_content", "## Introduction\n\nReal prose.", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAIErrorMessage(tc.content); got != tc.want {
				t.Errorf("IsAIErrorMessage(%q)=%v, want %v", tc.content, got, tc.want)
			}
		})
	}
}

func TestErrMsgGeneration(t *testing.T) {
	msg := ErrMsgGeneration(errors.New("deadline exceeded"))
	if !strings.Contains(msg, "deadline exceeded") {
		t.Errorf("sentinel should embed the underlying error, got %q", msg)
	}
	if !strings.Contains(msg, "Please try again.") {
		t.Errorf("sentinel should keep the retry suffix, got %q", msg)
	}
}
