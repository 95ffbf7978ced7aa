// Package commands implements the CLI commands for lockstep.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/lockstep/internal/app"
	"go.trai.ch/lockstep/internal/build"
	"go.trai.ch/lockstep/internal/core/domain"
)

// CLI represents the command line interface for lockstep.
type CLI struct {
	app      Application
	rootCmd  *cobra.Command
	shutdown func(context.Context) error
}

// Application represents the application logic interface.
type Application interface {
	MergeManifest(ctx context.Context, args domain.DriverArgs, opts app.ManifestOptions) error
	MergeLockfile(ctx context.Context, args domain.DriverArgs, opts app.LockfileOptions) (domain.LockfileOutcome, error)
	Install(ctx context.Context, dir string) (*domain.InstallResult, error)
	SetLogFormat(format string) error
	EnableTracing() func(context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "lockstep",
		Short:         "Git merge drivers for package.json and yarn.lock",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("log-format", "pretty", "Log output format (pretty or json)")
	rootCmd.PersistentFlags().Bool("trace", false, "Log a trace line for every finished operation")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.setup

	rootCmd.AddCommand(c.newMergeManifestCmd())
	rootCmd.AddCommand(c.newMergeLockfileCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("log-format")
	if err := c.app.SetLogFormat(format); err != nil {
		return err
	}
	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		c.shutdown = c.app.EnableTracing()
	}
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.shutdown != nil {
		// Flush pending spans even when the command was cancelled.
		err = errors.Join(err, c.shutdown(context.WithoutCancel(ctx)))
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
