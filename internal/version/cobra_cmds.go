package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates a 'version' subcommand that prints the package's version
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print notefolio's version",
		Long:  "Display version information including git commit and build date.",
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), GetShortVersion())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), GetVersionString())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}

// NewInfoCommand creates an 'info' subcommand that prints detailed package
// information. extra adds caller-provided lines such as the configured backend.
func NewInfoCommand(extra func() [][2]string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show detailed information about notefolio",
		Long:  "Display comprehensive information about the notefolio package including repository details.",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			pkgInfo := GetPackageInfo()
			fmt.Fprintf(out, "Program: %s\n", pkgInfo.PackageName)
			fmt.Fprintf(out, "Owner: %s\n", pkgInfo.RepoUser)
			fmt.Fprintf(out, "Repository: %s\n", pkgInfo.RepoName)
			fmt.Fprintf(out, "Repository URL: %s\n", pkgInfo.RepoUrl)
			fmt.Fprintf(out, "Version: %s\n", pkgInfo.PackageVersion)
			fmt.Fprintf(out, "Commit: %s\n", pkgInfo.PackageCommit)
			fmt.Fprintf(out, "Build Date: %s\n", pkgInfo.PackageReleaseDate)
			fmt.Fprintf(out, "Go: %s (%s)\n", pkgInfo.GoVersion, pkgInfo.Platform)

			if extra != nil {
				for _, kv := range extra() {
					fmt.Fprintf(out, "%s: %s\n", kv[0], kv[1])
				}
			}
		},
	}
}
