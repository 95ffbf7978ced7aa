package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/core/domain"
)

func TestParseDriverArgs(t *testing.T) {
	args, err := domain.ParseDriverArgs([]string{".merge_file_a", ".merge_file_b", ".merge_file_c", "7"})
	require.NoError(t, err)

	assert.Equal(t, domain.DriverArgs{
		Ancestor:   ".merge_file_a",
		Current:    ".merge_file_b",
		Incoming:   ".merge_file_c",
		MarkerSize: 7,
	}, args)
}

func TestParseDriverArgs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "too few", args: []string{"a", "b", "c"}},
		{name: "too many", args: []string{"a", "b", "c", "7", "x"}},
		{name: "empty path", args: []string{"a", "", "c", "7"}},
		{name: "non numeric marker size", args: []string{"a", "b", "c", "package.json"}},
		{name: "negative marker size", args: []string{"a", "b", "c", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseDriverArgs(tt.args)
			require.Error(t, err)
			assert.Equal(t, domain.ErrInvalidArguments, domain.Kind(err))
		})
	}
}

func TestDriverArgs_WorkDir(t *testing.T) {
	args := domain.DriverArgs{Current: "/repo/.merge_file_b"}
	assert.Equal(t, "/repo", args.WorkDir())

	args.Pathname = "packages/web/yarn.lock"
	assert.Equal(t, "packages/web", args.WorkDir())
}

func TestDriverSpec_AttributeLine(t *testing.T) {
	spec := domain.DriverSpec{Name: "lockstep-manifest", Pattern: "package.json"}
	assert.Equal(t, "package.json merge=lockstep-manifest", spec.AttributeLine())
}

func TestLockfileOutcome_String(t *testing.T) {
	assert.Equal(t, "deferred", domain.OutcomeDeferred.String())
	assert.Equal(t, "regenerated", domain.OutcomeRegenerated.String())
	assert.Equal(t, "failed", domain.OutcomeFailed.String())
	assert.Equal(t, "unknown", domain.LockfileOutcome(42).String())
}
