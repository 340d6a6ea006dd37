package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/pose-coach/internal/constants"
)

type Config struct {
	Landmark LandmarkConfig
	Camera   CameraConfig
	Session  SessionConfig
	Database DatabaseConfig
	Web      WebConfig
}

type LandmarkConfig struct {
	URL           string  // pose landmark service, defaults to http://localhost:8000
	MinVisibility float64 // landmarks less visible than this are ignored (default 0.5)
	Mirror        bool    // swap left and right, for selfie-view cameras
}

type CameraConfig struct {
	URL           string        // snapshot URL returning a single JPEG per GET
	Dir           string        // directory of images to replay instead of a camera
	FrameInterval time.Duration // delay between frames (default 100ms)
	MaxFrameSize  int           // frames are downscaled to this many pixels on the long side (default 640)
}

// Enabled reports whether a frame source is configured.
func (c *CameraConfig) Enabled() bool {
	return c.URL != "" || c.Dir != ""
}

type SessionConfig struct {
	RoundInterval time.Duration // time each routine pose is held (default 5s)
	AutoRounds    bool          // advance rounds on the server instead of the client
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL, leaderboard is kept in memory when empty
	MaxOpenConns int    // Maximum open connections (default 10)
	MaxIdleConns int    // Maximum idle connections (default 2)
}

type WebConfig struct {
	AllowedOrigins []string // extra CORS origins, loopback origins are always allowed
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a float in [0,1].
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f <= 1 {
		return f
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envDuration reads an environment variable as a positive duration ("5s", "250ms").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Landmark: LandmarkConfig{
			URL:           os.Getenv("LANDMARK_URL"),
			MinVisibility: envFloat("LANDMARK_MIN_VISIBILITY", constants.DefaultMinVisibility),
			Mirror:        envBool("POSE_MIRROR", false),
		},
		Camera: CameraConfig{
			URL:           os.Getenv("CAMERA_URL"),
			Dir:           os.Getenv("CAMERA_DIR"),
			FrameInterval: envDuration("FRAME_INTERVAL", constants.DefaultFrameInterval),
			MaxFrameSize:  envInt("MAX_FRAME_SIZE", constants.DefaultMaxFrameSize),
		},
		Session: SessionConfig{
			RoundInterval: envDuration("ROUND_INTERVAL", constants.DefaultRoundInterval),
			AutoRounds:    envBool("AUTO_ROUNDS", false),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		Web: WebConfig{
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
	}
}
