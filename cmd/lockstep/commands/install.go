package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [dir]",
		Short: "Register both merge drivers in the repository's local git config",
		Long: "Writes merge.package-json-driver and merge.yarn-lock-driver to .git/config\n" +
			"and routes the manifest and lockfile to them in .gitattributes.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			_, err := c.app.Install(cmd.Context(), dir)
			return err
		},
	}
}
