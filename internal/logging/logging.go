package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file written inside the log directory.
const LogFileName = "crm-metrics.log"

// Options control the logger sinks.
type Options struct {
	Verbose bool
	// Dir holds the rotating log file.
	Dir string
	// Console receives human-readable output; os.Stderr when nil.
	// Stdout is reserved for the MCP transport and report output.
	Console io.Writer
}

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
// It exits the process when the log directory is unusable.
func Init(verbose bool) {
	// Load .env from the binary directory so LOGS_FOLDER is known before config.Load.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}

	if err := Setup(Options{Verbose: verbose, Dir: ResolveDir(exeDir)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ResolveDir returns LOGS_FOLDER, else <exeDir>/logs, else ./logs.
func ResolveDir(exeDir string) string {
	if dir := os.Getenv("LOGS_FOLDER"); dir != "" {
		return dir
	}
	if exeDir != "" {
		return filepath.Join(exeDir, "logs")
	}
	return "logs"
}

// Setup installs the global logger. The file sink always logs at the chosen level.
func Setup(opts Options) error {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	console := opts.Console
	noColor := true
	if console == nil {
		console = os.Stderr
		noColor = !(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	if err := ensureWritable(opts.Dir); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)
	log.Logger = zerolog.New(multi).
		With().
		Timestamp().
		Logger()
	return nil
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	_ = os.Remove(testFile)
	return nil
}
