package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/core/domain"
)

func TestCoerceVersion(t *testing.T) {
	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{spec: "1.2.3", want: "1.2.3", wantOK: true},
		{spec: "^1.2.3", want: "1.2.3", wantOK: true},
		{spec: "~2.1", want: "2.1.0", wantOK: true},
		{spec: "v3", want: "3.0.0", wantOK: true},
		{spec: "1.x", want: "1.0.0", wantOK: true},
		{spec: "1.2.3-beta.1", want: "1.2.3", wantOK: true},
		{spec: "1.2.3+build.7", want: "1.2.3", wantOK: true},
		{spec: "1.2.3.4", want: "1.2.3", wantOK: true},
		{spec: ">=1.0.0 <2.0.0", want: "1.0.0", wantOK: true},
		{spec: "npm:react@18.2.0", want: "18.2.0", wantOK: true},
		{spec: "latest", wantOK: false},
		{spec: "*", wantOK: false},
		{spec: "", wantOK: false},
		{spec: "git+https://x/a.git", wantOK: false},
		{spec: "file:../shared", wantOK: false},
		{spec: "12345678901234567", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			v, ok := domain.CoerceVersion(tt.spec)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, v)
				return
			}
			require.NotNil(t, v)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestCoerceVersion_Ordering(t *testing.T) {
	older, ok := domain.CoerceVersion("^1.9.9")
	require.True(t, ok)
	newer, ok := domain.CoerceVersion("~1.10.0")
	require.True(t, ok)

	assert.True(t, newer.GreaterThan(older))
	assert.False(t, older.GreaterThan(newer))
}
