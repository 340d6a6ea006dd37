package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/kozaktomas/pose-coach/internal/config"
	"github.com/kozaktomas/pose-coach/internal/constants"
	"github.com/kozaktomas/pose-coach/internal/detector"
	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dir>",
	Short: "Measure joint angles for every image in a directory",
	Long: `Send every image in a directory to the landmark service and print the
measured joint angles together with the closest reference pose.

With --pose the images are also graded against that reference pose.`,
	Example: `  pose-coach analyze ./photos
  pose-coach analyze ./photos --pose 1 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("format", formatText, "Output format: text, json or yaml")
	analyzeCmd.Flags().Int("concurrency", constants.DefaultConcurrency, "Number of parallel detector requests")
	analyzeCmd.Flags().Int("pose", -1, "Grade images against this reference pose (0-3)")
	analyzeCmd.Flags().Float64("min-visibility", -1, "Ignore landmarks below this visibility (default LANDMARK_MIN_VISIBILITY)")
	analyzeCmd.Flags().Bool("mirror", false, "Swap left and right before measuring")
}

// ImageAnalysis is the measurement of one image.
type ImageAnalysis struct {
	File     string             `json:"file" yaml:"file"`
	Detected bool               `json:"detected" yaml:"detected"`
	Angles   pose.JointAngleSet `json:"angles,omitempty" yaml:"angles,omitempty"`
	Grade    string             `json:"grade,omitempty" yaml:"grade,omitempty"`
	Nearest  *pose.Match        `json:"nearest,omitempty" yaml:"nearest,omitempty"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// AnalyzeResult is the output of the analyze command.
type AnalyzeResult struct {
	Dir         string          `json:"dir" yaml:"dir"`
	Images      []ImageAnalysis `json:"images" yaml:"images"`
	Detected    int             `json:"detected" yaml:"detected"`
	NoDetection int             `json:"no_detection" yaml:"no_detection"`
	Errors      int             `json:"errors" yaml:"errors"`
	Summary     []JointSummary  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Duration    string          `json:"duration" yaml:"duration"`
}

// JointSummary describes how one joint angle varied across the detected images.
type JointSummary struct {
	Joint   pose.Joint `json:"joint" yaml:"joint"`
	Samples int        `json:"samples" yaml:"samples"`
	Mean    float64    `json:"mean" yaml:"mean"`
	StdDev  float64    `json:"std_dev" yaml:"std_dev"`
}

type analyzeOptions struct {
	concurrency   int
	poseID        pose.ID
	grade         bool
	minVisibility float64
	mirror        bool
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := config.Load()

	format := mustGetString(cmd, "format")
	if err := validateFormat(format); err != nil {
		return err
	}

	opts := analyzeOptions{
		concurrency:   mustGetInt(cmd, "concurrency"),
		minVisibility: mustGetFloat64(cmd, "min-visibility"),
		mirror:        mustGetBool(cmd, "mirror") || cfg.Landmark.Mirror,
	}
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}
	if opts.minVisibility < 0 {
		opts.minVisibility = cfg.Landmark.MinVisibility
	}
	id, ok, err := poseFlag(cmd, "pose")
	if err != nil {
		return err
	}
	opts.poseID, opts.grade = id, ok

	files, err := listImages(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no images found in %s", args[0])
	}

	client := detector.NewClient(cfg.Landmark.URL, cfg.Camera.MaxFrameSize)
	index := pose.NewIndex()

	var bar *progressbar.ProgressBar
	if format == formatText && isatty.IsTerminal(os.Stdout.Fd()) {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Detecting poses"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	startTime := time.Now()
	result := analyzeImages(ctx, client, index, files, opts, func() {
		if bar != nil {
			bar.Add(1)
		}
	})
	result.Dir = args[0]
	result.Duration = formatDuration(time.Since(startTime))

	if done, err := writeStructured(cmd.OutOrStdout(), format, result); done {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	printAnalysis(cmd, result, opts.grade)
	return nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && detector.IsImageFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// analyzeImages detects every file with at most opts.concurrency requests in
// flight. Results keep the order of files.
func analyzeImages(ctx context.Context, det poseDetector, index *pose.Index, files []string,
	opts analyzeOptions, progress func()) AnalyzeResult {
	images := make([]ImageAnalysis, len(files))

	sem := make(chan struct{}, opts.concurrency)
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer progress()

			images[i] = analyzeImage(ctx, det, index, path, opts)
		}(i, path)
	}
	wg.Wait()

	result := AnalyzeResult{Images: images}
	for _, img := range images {
		switch {
		case img.Error != "":
			result.Errors++
		case img.Detected:
			result.Detected++
		default:
			result.NoDetection++
		}
	}
	result.Summary = summarizeJoints(images)
	return result
}

// summarizeJoints returns the mean and standard deviation of every joint measured
// in at least one image.
func summarizeJoints(images []ImageAnalysis) []JointSummary {
	var out []JointSummary
	for _, joint := range pose.Joints {
		var values []float64
		for _, img := range images {
			if angle, ok := img.Angles[joint]; ok {
				values = append(values, angle)
			}
		}
		if len(values) == 0 {
			continue
		}

		summary := JointSummary{Joint: joint, Samples: len(values)}
		if len(values) == 1 {
			summary.Mean = values[0]
		} else {
			summary.Mean, summary.StdDev = stat.MeanStdDev(values, nil)
		}
		out = append(out, summary)
	}
	return out
}

// poseDetector is the part of the detector client analyze needs.
type poseDetector interface {
	Detect(ctx context.Context, imageData []byte) (pose.Skeleton, error)
}

func analyzeImage(ctx context.Context, det poseDetector, index *pose.Index, path string, opts analyzeOptions) ImageAnalysis {
	out := ImageAnalysis{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	skeleton, err := det.Detect(ctx, data)
	if errors.Is(err, detector.ErrNoDetection) {
		return out
	}
	if err != nil {
		out.Error = err.Error()
		return out
	}

	if opts.mirror {
		skeleton = skeleton.Mirrored()
	}
	out.Detected = true
	out.Angles = skeleton.Angles(opts.minVisibility)
	if opts.grade {
		out.Grade = pose.Score(out.Angles, opts.poseID).String()
	}
	if match, ok := index.Nearest(out.Angles); ok {
		out.Nearest = &match
	}
	return out
}

func printAnalysis(cmd *cobra.Command, result AnalyzeResult, graded bool) {
	w := cmd.OutOrStdout()

	headers := append([]string{"FILE"}, jointHeaders()...)
	if graded {
		headers = append(headers, "GRADE")
	}
	headers = append(headers, "NEAREST")

	rows := make([][]string, 0, len(result.Images))
	for _, img := range result.Images {
		row := []string{img.File}
		for _, joint := range pose.Joints {
			if angle, ok := img.Angles[joint]; ok {
				row = append(row, fmt.Sprintf("%.1f", angle))
			} else {
				row = append(row, "-")
			}
		}
		if graded {
			row = append(row, valueOr(img.Grade, "-"))
		}
		switch {
		case img.Error != "":
			row = append(row, "error: "+img.Error)
		case !img.Detected:
			row = append(row, "no body detected")
		case img.Nearest != nil:
			row = append(row, fmt.Sprintf("%s (%.1f)", img.Nearest.Name, img.Nearest.Distance))
		default:
			row = append(row, "-")
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(w, renderTable(headers, rows, rightAligned(1, len(pose.Joints))))

	if len(result.Summary) > 0 {
		summaryRows := make([][]string, 0, len(result.Summary))
		for _, s := range result.Summary {
			summaryRows = append(summaryRows, []string{
				string(s.Joint),
				strconv.Itoa(s.Samples),
				fmt.Sprintf("%.1f", s.Mean),
				fmt.Sprintf("%.1f", s.StdDev),
			})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderTable([]string{"JOINT", "SAMPLES", "MEAN", "STD DEV"}, summaryRows, rightAligned(1, 3)))
	}

	fmt.Fprintf(w, "\nCompleted in %s: %d detected, %d without a body, %d errors\n",
		result.Duration, result.Detected, result.NoDetection, result.Errors)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
