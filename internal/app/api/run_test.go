package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

type namedResets string

func (namedResets) ResetPassword(context.Context, string) error { return nil }

func TestChooseResets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inline := namedResets("inline")
	remote := namedResets("temporal")

	cases := []struct {
		name       string
		disabled   bool
		persistent bool
		dialErr    error
		want       userports.ResetOrchestrator
		dialed     bool
	}{
		{name: "temporal disabled", disabled: true, persistent: true, want: inline},
		{name: "in-memory users", persistent: false, want: inline},
		{name: "dial failure", persistent: true, dialErr: errors.New("connection refused"), want: inline, dialed: true},
		{name: "shared storage", persistent: true, want: remote, dialed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Temporal: TemporalConfig{Disabled: tc.disabled}}
			dialed := false
			got := chooseResets(cfg, tc.persistent, inline, func() (userports.ResetOrchestrator, error) {
				dialed = true
				if tc.dialErr != nil {
					return nil, tc.dialErr
				}
				return remote, nil
			}, logger)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.dialed, dialed)
		})
	}
}
