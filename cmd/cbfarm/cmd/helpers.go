package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/VSPipe/colorbleed-config/pkg/cbfarm"
	"github.com/joho/godotenv"
)

// logger is set by the root command before any subcommand runs.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// loadDotEnv loads path into the process environment. Variables already set
// win. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// setupLogger builds the structured logger from --log-format, --verbose and
// --quiet.
func setupLogger(w io.Writer) error {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	switch logFormat {
	case "text", "":
		logger = slog.New(slog.NewTextHandler(w, opts))
	case "json":
		logger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		return fmt.Errorf("invalid --log-format '%s' — must be one of: text, json", logFormat)
	}
	return nil
}

// newClient loads the layered config and builds a library client.
func newClient() (*cbfarm.Client, error) {
	c, err := cbfarm.New(cbfarm.Options{
		ConfigPath: configPath,
		NoInherit:  noInherit,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return c, nil
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// detailJSON prints v as indented JSON only in verbose mode.
func detailJSON(label string, v any) {
	if !verbose || v == nil {
		return
	}
	data, err := json.MarshalIndent(v, "    ", "  ")
	if err != nil {
		detail("%s: <%v>", label, err)
		return
	}
	fmt.Printf("  %s:\n    %s\n", label, data)
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
