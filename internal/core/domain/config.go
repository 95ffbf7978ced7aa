package domain

import (
	"strings"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultPackageManager is the package manager used to regenerate the lockfile.
	DefaultPackageManager = "yarn"

	// DefaultInstallTimeout bounds a single lockfile regeneration.
	DefaultInstallTimeout = 10 * time.Minute
)

// DefaultScopes are the package-name prefixes of internally controlled packages.
var DefaultScopes = []string{"@mirakl/"}

// installCommands maps known package managers to their plain install invocation
// and the flag forcing a full reinstall.
var installCommands = map[string]struct {
	install []string
	force   string
}{
	"yarn": {install: []string{"yarn", "install"}, force: "--force"},
	"npm":  {install: []string{"npm", "install"}, force: "--force"},
	"pnpm": {install: []string{"pnpm", "install"}, force: "--force"},
}

// Config holds the resolved lockstep configuration.
type Config struct {
	// Scopes are package-name prefixes whose versions must be comparable for a merge to succeed.
	Scopes []string
	// ManifestName is the file name of the manifest next to the lockfile.
	ManifestName string
	// LockfileName is the file name the package manager writes.
	LockfileName string
	// Installer configures lockfile regeneration.
	Installer InstallerConfig
}

// InstallerConfig configures the package manager invocation.
type InstallerConfig struct {
	// PackageManager selects a known install command (yarn, npm, pnpm).
	PackageManager string
	// Args overrides the command entirely when set.
	Args []string
	// Force requests a full reinstall instead of a plain install.
	Force bool
	// Timeout bounds the invocation. Zero means DefaultInstallTimeout.
	Timeout time.Duration
}

// InstallCommand is a resolved package manager invocation.
type InstallCommand struct {
	Args    []string
	Timeout time.Duration
}

// String renders the command line for log messages.
func (c InstallCommand) String() string {
	return strings.Join(c.Args, " ")
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Scopes:       append([]string(nil), DefaultScopes...),
		ManifestName: DefaultManifestName,
		LockfileName: DefaultLockfileName,
		Installer: InstallerConfig{
			PackageManager: DefaultPackageManager,
			Force:          true,
			Timeout:        DefaultInstallTimeout,
		},
	}
}

// Policy returns the reconciliation policy derived from the configuration.
func (c *Config) Policy() Policy {
	return Policy{Scopes: c.Scopes}
}

// Validate reports the first unusable configuration value.
func (c *Config) Validate() error {
	if c.ManifestName == "" {
		return zerr.With(ErrInvalidConfig, "field", "manifest")
	}
	if c.LockfileName == "" {
		return zerr.With(ErrInvalidConfig, "field", "lockfile")
	}
	if c.ManifestName == c.LockfileName {
		return zerr.With(ErrInvalidConfig, "reason", "manifest and lockfile share a name")
	}
	if c.Installer.Timeout < 0 {
		return zerr.With(zerr.With(ErrInvalidConfig, "field", "installer.timeout"), "value", c.Installer.Timeout.String())
	}
	_, err := c.Installer.Command()
	return err
}

// Command builds the package manager invocation.
func (i InstallerConfig) Command() (InstallCommand, error) {
	timeout := i.Timeout
	if timeout == 0 {
		timeout = DefaultInstallTimeout
	}

	if len(i.Args) > 0 {
		return InstallCommand{Args: append([]string(nil), i.Args...), Timeout: timeout}, nil
	}

	manager := i.PackageManager
	if manager == "" {
		manager = DefaultPackageManager
	}
	known, ok := installCommands[manager]
	if !ok {
		return InstallCommand{}, zerr.With(ErrUnknownPackageManager, "package_manager", manager)
	}

	args := append([]string(nil), known.install...)
	if i.Force {
		args = append(args, known.force)
	}
	return InstallCommand{Args: args, Timeout: timeout}, nil
}
