package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pose-coach",
	Short: "Live yoga pose scoring from a camera feed",
	Long: `Pose Coach compares the body angles of a person in front of a camera
with a small table of reference yoga poses, grades every frame and keeps a
running score, a streak and a leaderboard.

Landmarks come from an external pose detection service (LANDMARK_URL).`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
