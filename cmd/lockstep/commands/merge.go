package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockstep/internal/app"
	"go.trai.ch/lockstep/internal/core/domain"
)

const driverArgsUsage = "<ancestor> <current> <other> <marker-size>"

func (c *CLI) newMergeManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge-manifest " + driverArgsUsage,
		Short: "Merge three versions of package.json, keeping the newer dependency versions",
		Long: "Merge driver for package.json. Git calls it as\n" +
			"  lockstep merge-manifest %O %A %B %L --path %P\n" +
			"and the merged manifest is written over %A.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driverArgs, err := parseDriverArgs(cmd, args)
			if err != nil {
				return err
			}

			var opts app.ManifestOptions
			if cmd.Flags().Changed("scope") {
				opts.Scopes, _ = cmd.Flags().GetStringSlice("scope")
			}
			return c.app.MergeManifest(cmd.Context(), driverArgs, opts)
		},
	}
	cmd.Flags().String("path", "", "Path of the merged file in the worktree (%P)")
	cmd.Flags().StringSlice("scope", nil, "Package-name prefix of internally controlled packages (repeatable)")
	return cmd
}

func (c *CLI) newMergeLockfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge-lockfile " + driverArgsUsage,
		Short: "Regenerate yarn.lock once package.json is free of conflicts",
		Long: "Merge driver for yarn.lock. Git calls it as\n" +
			"  lockstep merge-lockfile %O %A %B %L --path %P\n" +
			"The lockfile is left untouched while package.json still has conflict markers.\n" +
			"During a git merge the manifest the merge will produce is used for regeneration.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driverArgs, err := parseDriverArgs(cmd, args)
			if err != nil {
				return err
			}

			var opts app.LockfileOptions
			opts.PackageManager, _ = cmd.Flags().GetString("package-manager")
			opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
			if cmd.Flags().Changed("force") {
				force, _ := cmd.Flags().GetBool("force")
				opts.Force = &force
			}

			_, err = c.app.MergeLockfile(cmd.Context(), driverArgs, opts)
			return err
		},
	}
	cmd.Flags().String("path", "", "Path of the merged file in the worktree (%P)")
	cmd.Flags().String("package-manager", "", "Package manager used to regenerate the lockfile (yarn, npm, pnpm)")
	cmd.Flags().BoolP("force", "f", false, "Force a full reinstall (--force=false for a plain install)")
	cmd.Flags().Duration("timeout", 0, "Maximum duration of the package manager run")
	return cmd
}

func parseDriverArgs(cmd *cobra.Command, args []string) (domain.DriverArgs, error) {
	driverArgs, err := domain.ParseDriverArgs(args)
	if err != nil {
		return domain.DriverArgs{}, err
	}
	driverArgs.Pathname, _ = cmd.Flags().GetString("path")
	return driverArgs, nil
}
