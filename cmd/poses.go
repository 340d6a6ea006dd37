package cmd

import (
	"fmt"
	"strconv"

	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/spf13/cobra"
)

var posesCmd = &cobra.Command{
	Use:   "poses",
	Short: "List the reference poses and their target angles",
	Example: `  pose-coach poses
  pose-coach poses --format yaml`,
	Args: cobra.NoArgs,
	RunE: runPoses,
}

func init() {
	rootCmd.AddCommand(posesCmd)
	posesCmd.Flags().String("format", formatText, "Output format: text, json or yaml")
}

func runPoses(cmd *cobra.Command, args []string) error {
	format := mustGetString(cmd, "format")
	if err := validateFormat(format); err != nil {
		return err
	}

	refs := pose.All()
	if done, err := writeStructured(cmd.OutOrStdout(), format, refs); done {
		return err
	}

	headers := append([]string{"ID", "POSE"}, jointHeaders()...)
	rows := make([][]string, 0, len(refs))
	for _, ref := range refs {
		row := []string{strconv.Itoa(int(ref.ID)), ref.Name}
		for _, joint := range pose.Joints {
			row = append(row, fmt.Sprintf("%.1f", ref.Target[joint]))
		}
		rows = append(rows, row)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, rightAligned(2, len(pose.Joints))))
	return nil
}
