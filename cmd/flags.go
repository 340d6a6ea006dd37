package cmd

import (
	"fmt"

	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/spf13/cobra"
)

// The mustGet helpers panic when a flag is missing. Flags are registered in init(),
// so a failed lookup is a programming error rather than bad input.

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// poseFlag reads a reference pose id flag. A negative value means the flag was
// left unset and yields ok=false.
func poseFlag(cmd *cobra.Command, name string) (id pose.ID, ok bool, err error) {
	id = pose.ID(mustGetInt(cmd, name))
	if id < 0 {
		return 0, false, nil
	}
	if !id.Valid() {
		return 0, false, fmt.Errorf("unknown pose %d for --%s (want 0-%d)", id, name, pose.PoseCount-1)
	}
	return id, true, nil
}
