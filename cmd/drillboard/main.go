package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/scorelect/drillboard/internal/config"
	"github.com/scorelect/drillboard/internal/logging"
	"github.com/scorelect/drillboard/internal/render"
	"github.com/scorelect/drillboard/internal/storage"
	"github.com/scorelect/drillboard/internal/storage/factory"
)

// BuildDate can be set at build time via ldflags
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"

	AppName string = "drillboard"
)

// LogRetention is how long session logs are kept.
const LogRetention = 7 * 24 * time.Hour

const usage = `usage: drillboard [flags] <command> [args]

commands:
  new <title>        create a document (--sport, --orientation)
  list               list stored documents
  show <id>          print a document as JSON
  play <id> [file]   replay editor events from file, or stdin, and save
                     (--snapshot file.png writes the final view)
  export <id>        render every page (--format pdf|png, --out dir,
                     --stage offscreen|shared)
  delete <id>        remove a document
  version            print the version
`

// app carries what every command needs.
type app struct {
	store  storage.Backend
	log    *slog.Logger
	dbLog  zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	fonts  *render.Fonts
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "drillboard:", err)
		os.Exit(1)
	}
}

// run parses global flags, loads configuration and runs one command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.Usage = func() { fmt.Fprint(stdout, usage) }
	configDir := flags.String("config-dir", ".", "directory containing "+config.FileName)
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("logs-dir", "", "directory for session logs; empty logs to stdout")
	flags.String("storage", "", "storage backend (memory, sqlite, postgres)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := config.Load(*configDir); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	for key, flag := range map[string]string{"logLevel": "log-level", "logsDir": "logs-dir", "storage.type": "storage"} {
		if flags.Changed(flag) {
			if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
				return err
			}
		}
	}

	rest := flags.Args()
	if len(rest) == 0 {
		flags.Usage()
		return errors.New("no command given")
	}
	if rest[0] == "version" {
		fmt.Fprintf(stdout, "%s %s (built %s)\n", AppName, Version, BuildDate)
		return nil
	}

	logFile, err := openLogFile(viper.GetString("logsDir"))
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	level := viper.GetString("logLevel")
	slogManager := logging.NewSlogManager()
	var logWriter io.Writer
	if logFile != nil {
		logWriter = logFile
	}
	storageType := config.GetStorageConfig().Type
	slogManager.Setup(logWriter, level, func() []slog.Attr {
		return []slog.Attr{slog.String("storage", storageType)}
	})

	a := &app{
		log:    slogManager.With("cli"),
		dbLog:  logging.NewZerolog(logWriter, level, "storage"),
		stdin:  stdin,
		stdout: stdout,
	}

	a.store, err = factory.NewBackend(config.GetStorageConfig(), a.dbLog)
	if err != nil {
		return err
	}
	if err := a.store.Init(); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Error("closing storage", "error", err)
		}
	}()

	return a.dispatch(ctx, rest[0], rest[1:])
}

// openLogFile opens the session log in dir. With no directory configured
// records go to stdout.
func openLogFile(dir string) (*os.File, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	path := logging.LogFilePath(dir, AppName, time.Now())
	f, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	if _, err := logging.RemoveOldLogs(dir, AppName, LogRetention, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "removing old logs:", err)
	}
	return f, nil
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "new":
		return a.cmdNew(ctx, args)
	case "list":
		return a.cmdList(ctx)
	case "show":
		return a.cmdShow(ctx, args)
	case "play":
		return a.cmdPlay(ctx, args)
	case "export":
		return a.cmdExport(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	default:
		fmt.Fprint(a.stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
