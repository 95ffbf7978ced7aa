// Package config provides the configuration loader for lockstep.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: OSFS{}}
}

// Load returns the configuration for dir. The nearest lockstep.yaml in dir or
// one of its parents is applied on top of the defaults.
func (l *Loader) Load(dir string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	configPath, found, err := l.find(dir)
	if err != nil || !found {
		return cfg, err
	}

	var file File
	if err := l.readYAML(configPath, &file); err != nil {
		return nil, err
	}

	if err := l.apply(cfg, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return cfg, nil
}

// find walks up from dir to the filesystem root.
func (l *Loader) find(dir string) (string, bool, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "dir", dir)
	}

	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		info, statErr := l.FS.Stat(candidate)
		switch {
		case statErr == nil && !info.IsDir():
			return candidate, true, nil
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return "", false, zerr.With(zerr.Wrap(statErr, domain.ErrConfigReadFailed.Error()), "path", candidate)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false, nil
		}
		current = parent
	}
}

func (l *Loader) readYAML(configPath string, target *File) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	return nil
}

func (l *Loader) apply(cfg *domain.Config, file *File) error {
	if file.Scopes != nil {
		// Blank and repeated prefixes are dropped.
		cfg.Scopes = lo.Uniq(lo.Compact(*file.Scopes))
	}
	if file.Manifest != "" {
		cfg.ManifestName = file.Manifest
	}
	if file.Lockfile != "" {
		cfg.LockfileName = file.Lockfile
	}

	in := file.Installer
	if in == nil {
		return nil
	}

	if in.PackageManager != "" {
		cfg.Installer.PackageManager = in.PackageManager
	}
	if len(in.Command) > 0 {
		cfg.Installer.Args = append([]string(nil), in.Command...)
		if in.Force != nil || in.PackageManager != "" {
			l.Logger.Warn("installer.command is set, installer.force and installer.packageManager have no effect")
		}
	}
	if in.Force != nil {
		cfg.Installer.Force = *in.Force
	}
	if in.Timeout != "" {
		timeout, err := time.ParseDuration(in.Timeout)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "field", "installer.timeout")
		}
		if timeout <= 0 {
			err := zerr.With(domain.ErrInvalidConfig, "field", "installer.timeout")
			return zerr.With(err, "value", in.Timeout)
		}
		cfg.Installer.Timeout = timeout
	}

	return nil
}
