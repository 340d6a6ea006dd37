package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Grade a joint angle set against a reference pose",
	Long: `Grade a set of joint angles against one of the reference poses.

Angles are read as a JSON object keyed by joint name, from --angles, a file
given with --file, or standard input.`,
	Example: `  pose-coach score --pose 1 --angles '{"left_knee":175,"right_knee":60}'
  pose-coach score --pose 3 --file frame.json --json
  cat frame.json | pose-coach score --pose 0`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Int("pose", -1, "Reference pose (0-3, required)")
	scoreCmd.Flags().String("angles", "", "Joint angles as a JSON object")
	scoreCmd.Flags().String("file", "", "Read joint angles from a JSON file")
	scoreCmd.Flags().Bool("json", false, "Output as JSON")
}

// ScoreOutput is the result of grading one angle set.
type ScoreOutput struct {
	Pose        pose.ID           `json:"pose"`
	PoseName    string            `json:"pose_name"`
	Grade       pose.Grade        `json:"grade"`
	GradeName   string            `json:"grade_name"`
	Label       string            `json:"label"`
	Comparisons []JointComparison `json:"comparisons"`
	Nearest     *pose.Match       `json:"nearest,omitempty"`
}

// JointComparison is one joint's measured and reference angle.
type JointComparison struct {
	Joint   pose.Joint `json:"joint"`
	Current float64    `json:"current"`
	Target  float64    `json:"target"`
	Diff    float64    `json:"diff"`
}

func runScore(cmd *cobra.Command, args []string) error {
	id, ok, err := poseFlag(cmd, "pose")
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("--pose is required")
	}

	raw, err := readAngles(cmd)
	if err != nil {
		return err
	}
	angles, err := parseAngles(raw)
	if err != nil {
		return err
	}

	out := scoreAngles(angles, id, pose.NewIndex())

	if mustGetBool(cmd, "json") {
		_, err := writeStructured(cmd.OutOrStdout(), formatJSON, out)
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Pose:  %s (%d)\n", out.PoseName, out.Pose)
	fmt.Fprintf(w, "Grade: %s (%d) %s\n\n", out.GradeName, out.Grade, out.Label)

	if len(out.Comparisons) == 0 {
		fmt.Fprintln(w, "No joints in common with the reference pose.")
	} else {
		rows := make([][]string, 0, len(out.Comparisons))
		for _, c := range out.Comparisons {
			rows = append(rows, []string{
				string(c.Joint),
				fmt.Sprintf("%.1f", c.Current),
				fmt.Sprintf("%.1f", c.Target),
				fmt.Sprintf("%.1f", c.Diff),
			})
		}
		fmt.Fprintln(w, renderTable([]string{"JOINT", "CURRENT", "TARGET", "DIFF"}, rows, rightAligned(1, 3)))
	}

	if out.Nearest != nil {
		fmt.Fprintf(w, "\nClosest reference pose: %s (distance %.1f)\n", out.Nearest.Name, out.Nearest.Distance)
	}
	return nil
}

func readAngles(cmd *cobra.Command) ([]byte, error) {
	if s := mustGetString(cmd, "angles"); s != "" {
		return []byte(s), nil
	}
	if path := mustGetString(cmd, "file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read angles file: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read angles from stdin: %w", err)
	}
	return data, nil
}

// parseAngles decodes a joint angle object, rejecting unknown joints and angles
// outside 0-180.
func parseAngles(data []byte) (pose.JointAngleSet, error) {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid angles JSON: %w", err)
	}

	angles := make(pose.JointAngleSet, len(raw))
	for name, angle := range raw {
		joint := pose.Joint(strings.ToLower(strings.TrimSpace(name)))
		if !joint.Valid() {
			return nil, fmt.Errorf("unknown joint %q", name)
		}
		if angle < 0 || angle > 180 {
			return nil, fmt.Errorf("angle for %s out of range: %v", joint, angle)
		}
		angles[joint] = angle
	}
	return angles, nil
}

func scoreAngles(angles pose.JointAngleSet, id pose.ID, index *pose.Index) ScoreOutput {
	target, _ := pose.Lookup(id)
	grade := pose.Score(angles, id)

	out := ScoreOutput{
		Pose:      id,
		PoseName:  id.String(),
		Grade:     grade,
		GradeName: grade.String(),
		Label:     grade.Label(),
	}
	for _, c := range pose.Join(angles, target) {
		out.Comparisons = append(out.Comparisons, JointComparison{
			Joint:   c.Joint,
			Current: c.Current,
			Target:  c.Target,
			Diff:    c.Diff(),
		})
	}
	if match, ok := index.Nearest(angles); ok {
		out.Nearest = &match
	}
	return out
}
