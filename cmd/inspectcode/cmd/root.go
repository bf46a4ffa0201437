// Package cmd implements the inspectcode CLI commands.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var version string

var rootCmd = &cobra.Command{
	Use:   "inspectcode",
	Short: "Convert JetBrains InspectCode reports into normalized issues",
	Long: `inspectcode converts JetBrains ReSharper InspectCode XML reports into
normalized issue records.

Issues can be emitted as JSON, YAML, or SARIF, filtered by priority, and
served over HTTP for CI integration.

Examples:
  inspectcode convert report.xml
  inspectcode convert report.xml -o sarif --out issues.sarif
  cat report.xml | inspectcode convert - --min-priority warning
  inspectcode serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the CLI version from build flags.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inspectcode %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
}
