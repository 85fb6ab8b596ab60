package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file written below the log directory.
const LogFileName = "jira-digest.log"

// Init installs the global logger with two sinks: a console writer on
// stderr and a rotating file under LOGS_FOLDER (default <exe dir>/logs).
// stdout stays free for report output.
func Init(verbose bool) error {
	// LOGS_FOLDER may only be set in the binary's .env; Init runs before config.Load.
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	fd := os.Stderr.Fd()
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)),
	}

	dir := os.Getenv("LOGS_FOLDER")
	if dir == "" {
		dir = "logs"
		if exeErr == nil {
			dir = filepath.Join(filepath.Dir(exePath), "logs")
		}
	}
	file, err := rotatingFile(dir)
	if err != nil {
		return err
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(io.Writer(console), file)).
		With().
		Timestamp().
		Logger()
	return nil
}

func rotatingFile(dir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     90, // days
		Compress:   true,
	}, nil
}

// StartRun derives a logger tagged with a fresh run id and stores it in ctx.
// Retrieve it with zerolog.Ctx.
func StartRun(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	logger := log.With().Str("run", id).Logger()
	return logger.WithContext(ctx), id
}
