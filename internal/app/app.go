// Package app implements the application layer for lockstep.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/lockstep/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/lockstep/internal/engine/merge"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	manifests    *merge.ManifestMerger
	lockfiles    *merge.LockfileCoordinator
	git          ports.GitConfigurator
	tracer       ports.Tracer
	executable   func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	manifests *merge.ManifestMerger,
	lockfiles *merge.LockfileCoordinator,
	git ports.GitConfigurator,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		manifests:    manifests,
		lockfiles:    lockfiles,
		git:          git,
		tracer:       tracer,
		executable:   currentExecutable,
	}
}

// WithExecutable fixes the program path written into the driver commands.
// This is primarily used for testing.
func (a *App) WithExecutable(path string) *App {
	a.executable = func() (string, error) { return path, nil }
	return a
}

// SetLogFormat switches the logger between "pretty" and "json" output.
func (a *App) SetLogFormat(format string) error {
	switcher, ok := a.logger.(interface{ SetJSON(bool) })
	switch format {
	case "", "pretty":
		if ok {
			switcher.SetJSON(false)
		}
	case "json":
		if ok {
			switcher.SetJSON(true)
		}
	default:
		return zerr.With(zerr.With(domain.ErrInvalidArguments, "flag", "log-format"), "value", format)
	}
	return nil
}

// EnableTracing installs an OpenTelemetry provider that logs every finished span.
// The returned function flushes and shuts the provider down.
func (a *App) EnableTracing() func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewLogBridge(a.logger)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// ManifestOptions configures the manifest driver beyond the config file.
type ManifestOptions struct {
	// Scopes replaces the configured scope prefixes when non-nil.
	Scopes []string
}

// MergeManifest runs the manifest merge driver and writes the result over the current file.
func (a *App) MergeManifest(ctx context.Context, args domain.DriverArgs, opts ManifestOptions) error {
	cfg, err := a.loadConfig(args.WorkDir())
	if err != nil {
		return err
	}

	policy := cfg.Policy()
	if opts.Scopes != nil {
		policy.Scopes = opts.Scopes
	}

	report, err := a.manifests.Merge(ctx, args, policy)
	if err != nil {
		return err
	}

	if conflicts := len(report.Conflicts()); conflicts > 0 {
		a.logger.Info(fmt.Sprintf("reconciled %d version conflicts in %s", conflicts, manifestLabel(args, cfg)))
	}
	return nil
}

// LockfileOptions configures the lockfile driver beyond the config file.
type LockfileOptions struct {
	// PackageManager selects a known install command and drops a configured command.
	PackageManager string
	// Force overrides the configured force flag when non-nil.
	Force *bool
	// Timeout overrides the configured timeout when positive.
	Timeout time.Duration
}

// MergeLockfile runs the lockfile merge driver.
func (a *App) MergeLockfile(
	ctx context.Context,
	args domain.DriverArgs,
	opts LockfileOptions,
) (domain.LockfileOutcome, error) {
	cfg, err := a.loadConfig(args.WorkDir())
	if err != nil {
		return domain.OutcomeFailed, err
	}

	installer := cfg.Installer
	if opts.PackageManager != "" {
		installer.PackageManager = opts.PackageManager
		installer.Args = nil
	}
	if opts.Force != nil {
		installer.Force = *opts.Force
	}
	if opts.Timeout > 0 {
		installer.Timeout = opts.Timeout
	}

	command, err := installer.Command()
	if err != nil {
		return domain.OutcomeFailed, err
	}

	return a.lockfiles.Merge(ctx, args, merge.LockfileSettings{
		ManifestName: cfg.ManifestName,
		LockfileName: cfg.LockfileName,
		Command:      command,
		Policy:       cfg.Policy(),
	})
}

// Install registers both merge drivers in the repository containing dir.
func (a *App) Install(ctx context.Context, dir string) (*domain.InstallResult, error) {
	ctx, span := a.tracer.Start(ctx, "install")
	defer span.End()

	cfg, err := a.loadConfig(dir)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	exe, err := a.executable()
	if err != nil {
		err = zerr.Wrap(err, "failed to locate the lockstep executable")
		span.RecordError(err)
		return nil, err
	}

	drivers := domain.Drivers(exe, cfg)
	result, err := a.git.Install(ctx, dir, drivers)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("root", result.Root)
	for _, d := range drivers {
		a.logger.Info(fmt.Sprintf("registered merge driver %s for %s", d.Name, d.Pattern))
	}
	for _, line := range result.AddedAttributes {
		a.logger.Info(fmt.Sprintf("added %q to %s", line, result.AttributesPath))
	}
	if len(result.AddedAttributes) == 0 {
		a.logger.Info(fmt.Sprintf("%s already routes both files", result.AttributesPath))
	}
	return result, nil
}

func (a *App) loadConfig(dir string) (*domain.Config, error) {
	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func manifestLabel(args domain.DriverArgs, cfg *domain.Config) string {
	if args.Pathname != "" {
		return args.Pathname
	}
	return cfg.ManifestName
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}
