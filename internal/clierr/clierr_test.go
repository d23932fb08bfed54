package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", Usage("bad %s", "input"), ExitUsage},
		{"auth", Auth("nope"), ExitAuth},
		{"not found", NotFound("gone"), ExitNotFound},
		{"api", API("boom", 500, "internal"), ExitAPI},
		{"unclassified", errors.New("plain"), ExitAPI},
		{"wrapped usage", fmt.Errorf("creating model: %w", Usage("bad")), ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestAsUnwrapsChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", API("server exploded", 502, "bad_gateway"))

	cerr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindAPI, cerr.Kind)
	assert.Equal(t, 502, cerr.Status)
	assert.Equal(t, "bad_gateway", cerr.Code)
	assert.True(t, Is(err, KindAPI))
	assert.False(t, Is(err, KindAuth))
}

func TestNetworkKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())

	cerr, ok := As(err)
	require.True(t, ok)
	assert.Zero(t, cerr.Status)
}

func TestMachineCode(t *testing.T) {
	assert.Equal(t, "USAGE_ERROR", MachineCode(Usage("x")))
	assert.Equal(t, "AUTH_ERROR", MachineCode(Auth("x")))
	assert.Equal(t, "NOT_FOUND", MachineCode(NotFound("x")))
	assert.Equal(t, "API_ERROR", MachineCode(API("x", 500, "")))
	assert.Equal(t, "quota_exceeded", MachineCode(API("x", 429, "quota_exceeded")))
	assert.Equal(t, "ERROR", MachineCode(errors.New("x")))
}
