package cmd

import (
	"fmt"

	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/spf13/cobra"
)

// Build metadata, set with -ldflags at compile time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// VersionInfo is the JSON form of the version command.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Poses     int    `json:"poses"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := VersionInfo{Version: Version, Commit: CommitSHA, BuildDate: BuildDate, Poses: pose.PoseCount}
		if mustGetBool(cmd, "json") {
			_, err := writeStructured(cmd.OutOrStdout(), formatJSON, info)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pose-coach %s\n  Commit: %s\n  Built:  %s\n  Poses:  %d\n",
			info.Version, info.Commit, info.BuildDate, info.Poses)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("json", false, "Output as JSON")
}
