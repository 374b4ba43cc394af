package jnikit

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/swifdroid/jnikit/logcat"
)

// Options tunes a Bridge. The zero value is usable but DefaultOptions
// is the intended starting point.
type Options struct {
	// AttachAsDaemon selects daemon attachment for threads the bridge
	// attaches implicitly. Daemon threads do not block VM shutdown,
	// which fits background goroutines; the thread that drives UI
	// interop usually wants the default.
	AttachAsDaemon bool `toml:"attach_as_daemon"`

	// NegativeCacheSize bounds the per-kind negative resolution
	// caches. Zero disables negative caching entirely.
	NegativeCacheSize int `toml:"negative_cache_size"`

	// Preload lists classes to resolve when the bridge comes up.
	Preload []string `toml:"preload"`

	// LogTag and LogLevel configure the default logger. LogLevel
	// accepts the logcat names ("verbose".."silent") and letters.
	// Both are ignored when a logger is injected with WithLogger.
	LogTag   string `toml:"log_tag"`
	LogLevel string `toml:"log_level"`
}

// DefaultOptions returns the settings a plain Bridge runs with.
func DefaultOptions() Options {
	return Options{
		AttachAsDaemon:    false,
		NegativeCacheSize: 128,
		LogTag:            "jnikit",
		LogLevel:          "warn",
	}
}

// LoadOptions reads Options from a TOML file, on top of defaults:
//
//	attach_as_daemon = true
//	negative_cache_size = 256
//	preload = ["android/os/Build", "android/util/Log"]
//	log_level = "debug"
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("load options: %w", err)
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("load options %s: %w", path, err)
	}
	if opts.NegativeCacheSize < 0 {
		return opts, fmt.Errorf("load options %s: negative_cache_size must be >= 0", path)
	}
	return opts, nil
}

// Option configures a Bridge under construction.
type Option func(*Bridge)

// WithOptions replaces the bridge's options wholesale. Start from
// DefaultOptions or LoadOptions rather than a zero Options.
func WithOptions(opts Options) Option {
	return func(b *Bridge) { b.opts = opts }
}

// WithLogger injects a logger, overriding the LogTag/LogLevel options.
func WithLogger(log *logcat.Logger) Option {
	return func(b *Bridge) { b.log = log }
}
