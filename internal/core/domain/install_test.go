package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/core/domain"
)

func TestDrivers(t *testing.T) {
	cfg := domain.DefaultConfig()

	drivers := domain.Drivers("/usr/local/bin/lockstep", cfg)

	require.Len(t, drivers, 2)
	assert.Equal(t, "package-json-driver", drivers[0].Name)
	assert.Equal(t, "/usr/local/bin/lockstep merge-manifest %O %A %B %L --path %P", drivers[0].Command)
	assert.Equal(t, "package.json merge=package-json-driver", drivers[0].AttributeLine())
	assert.Equal(t, "yarn-lock-driver", drivers[1].Name)
	assert.Equal(t, "/usr/local/bin/lockstep merge-lockfile %O %A %B %L --path %P", drivers[1].Command)
	assert.Equal(t, "yarn.lock merge=yarn-lock-driver", drivers[1].AttributeLine())
}

func TestDrivers_CustomNames(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.LockfileName = "pnpm-lock.yaml"

	drivers := domain.Drivers("lockstep", cfg)

	assert.Equal(t, "pnpm-lock.yaml merge=yarn-lock-driver", drivers[1].AttributeLine())
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "lockstep", want: "lockstep"},
		{in: "/opt/bin/lockstep", want: "/opt/bin/lockstep"},
		{in: "/Users/jane doe/bin/lockstep", want: "'/Users/jane doe/bin/lockstep'"},
		{in: "/tmp/it's/lockstep", want: `'/tmp/it'\''s/lockstep'`},
		{in: "", want: "''"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ShellQuote(tt.in))
		})
	}
}
