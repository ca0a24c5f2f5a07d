package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"go.trai.ch/zerr"

	"github.com/esmd-dev/esmd/internal/core/domain"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", domain.ErrLoadNotFound, domain.CodeLoadNotFound},
		{"wrapped once", zerr.Wrap(domain.ErrLoadPublicURL, "while serving"), domain.CodeLoadPublicURL},
		{"wrapped with metadata", zerr.With(zerr.Wrap(domain.ErrOptimizeOutdated, "mid-flight"), "id", "react"), domain.CodeOptimizeOutdated},
		{"stdlib wrapped", fmt.Errorf("request failed: %w", domain.ErrOptimizeProcessing), domain.CodeOptimizeProcessing},
		{"no code", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelsSatisfyErrorsIs(t *testing.T) {
	err := zerr.With(zerr.Wrap(domain.ErrLoadNotFound, "context"), "url", "/missing.js")
	if !errors.Is(err, domain.ErrLoadNotFound) {
		t.Error("expected wrapped sentinel to satisfy errors.Is")
	}
}
