package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/scorelect/drillboard/internal/cache"
	"github.com/scorelect/drillboard/internal/config"
	"github.com/scorelect/drillboard/internal/dispatcher"
	"github.com/scorelect/drillboard/internal/editor"
	"github.com/scorelect/drillboard/internal/export"
	"github.com/scorelect/drillboard/internal/influx"
	"github.com/scorelect/drillboard/internal/logging"
	"github.com/scorelect/drillboard/internal/render"
	"github.com/scorelect/drillboard/internal/tool"
	"github.com/scorelect/drillboard/internal/util"
	"github.com/scorelect/drillboard/pkg/core"
)

func needID(args []string) (string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", errors.New("document id required")
	}
	return args[0], nil
}

func (a *app) cmdNew(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("new", pflag.ContinueOnError)
	sport := flags.String("sport", string(core.SportGAA), "pitch sport")
	orientation := flags.String("orientation", string(core.Landscape), "landscape or portrait")
	description := flags.String("description", "", "document description")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 {
		return errors.New("title required")
	}

	o, err := core.ParseOrientation(*orientation)
	if err != nil {
		return err
	}
	doc := core.NewDocument(flags.Arg(0), core.ParseSport(*sport), o)
	doc.Description = *description

	id, err := a.store.Save(ctx, doc)
	if err != nil {
		return err
	}
	a.log.Info("document created", "id", id, "sport", doc.Sport)
	fmt.Fprintln(a.stdout, id)
	return nil
}

func (a *app) cmdList(ctx context.Context) error {
	list, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSPORT\tORIENTATION\tPAGES\tOBJECTS\tUPDATED")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			s.ID, s.Title, s.Sport, s.Orientation, s.Pages, s.Objects, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	id, err := needID(args)
	if err != nil {
		return err
	}
	doc, err := a.store.Load(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	id, err := needID(args)
	if err != nil {
		return err
	}
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	a.log.Info("document deleted", "id", id)
	return nil
}

// loadFonts parses the drawing fonts once and makes text bounds use them.
func (a *app) loadFonts() (*render.Fonts, error) {
	if a.fonts != nil {
		return a.fonts, nil
	}
	fonts, err := render.NewFonts()
	if err != nil {
		return nil, err
	}
	fonts.Install()
	a.fonts = fonts
	return fonts, nil
}

// newSession opens doc for editing with the configured editor settings.
func (a *app) newSession(doc *core.Document) (*editor.Session, error) {
	if _, err := a.loadFonts(); err != nil {
		return nil, err
	}
	cfg := config.GetEditorConfig()
	return editor.New(doc,
		editor.WithLogger(a.log.With("component", "editor")),
		editor.WithResolver(render.NewResolver(cache.NewHandles())),
		editor.WithToolOptions(tool.WithMinShapeSize(cfg.MinShapeSize)),
		editor.WithHandleRadius(cfg.HandleRadius),
		editor.WithHitTolerance(cfg.HitTolerance),
	), nil
}

// cmdPlay replays an event script against a stored document and saves the
// result. Each non-blank line is one event, e.g. `pointer.down 120 80`.
// --snapshot writes the final view, overlays included, as a PNG.
func (a *app) cmdPlay(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("play", pflag.ContinueOnError)
	snapshot := flags.String("snapshot", "", "write the final view to this PNG file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	args = flags.Args()
	id, err := needID(args)
	if err != nil {
		return err
	}
	ctx = logging.ContextWith(ctx, slog.String("document", id))
	doc, err := a.store.Load(ctx, id)
	if err != nil {
		return err
	}

	var in io.Reader = a.stdin
	if len(args) > 1 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		in = f
	}

	s, err := a.newSession(doc)
	if err != nil {
		return err
	}
	d, err := dispatcher.New(a.log.With("component", "dispatcher"))
	if err != nil {
		return err
	}
	defer d.Close()
	editor.NewHandlers(s, a.log.With("component", "handlers")).Register(d, dispatcher.Logged())

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		e, ok, err := dispatcher.ParseEvent(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		res, err := d.Dispatch(e)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if msg, ok := res.(string); ok && msg != "ok" {
			fmt.Fprintf(a.stdout, "%d: %s\n", line, msg)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	if *snapshot != "" {
		if err := writeSnapshot(*snapshot, s, a.fonts); err != nil {
			return err
		}
	}

	saved, err := s.Save(ctx, a.store)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, saved)
	return nil
}

func writeSnapshot(path string, s *editor.Session, fonts *render.Fonts) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, render.View(s, fonts)); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	cfg := config.GetExportConfig()
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	format := flags.String("format", cfg.Format, "pdf or png")
	out := flags.String("out", cfg.OutputDir, "output directory")
	stageKind := flags.String("stage", cfg.Stage, "offscreen or shared")
	if err := flags.Parse(args); err != nil {
		return err
	}
	id, err := needID(flags.Args())
	if err != nil {
		return err
	}
	ctx = logging.ContextWith(ctx, slog.String("document", id))
	doc, err := a.store.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	fonts, err := a.loadFonts()
	if err != nil {
		return err
	}
	stage, err := export.NewStage(*stageKind, doc.Orientation, cfg.PixelRatio, fonts)
	if err != nil {
		return err
	}
	base := util.SanitizeFilename(doc.Title)

	var writer export.PageWriter
	var files func() []string
	switch *format {
	case "pdf":
		path := filepath.Join(*out, base+".pdf")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		writer = export.NewPDFWriter(f, doc.Orientation, doc.Title)
		files = func() []string { return []string{path} }
	case "png":
		w := export.NewPNGWriter(*out, base)
		writer = w
		files = w.Files
	default:
		return fmt.Errorf("unknown export format %q", *format)
	}

	opts := []export.Option{
		export.WithPixelRatio(cfg.PixelRatio),
		export.WithLogger(a.log.With("component", "export")),
	}
	if *stageKind == export.StageShared {
		opts = append(opts, export.WithSettleDelay(cfg.SettleDelay))
	}
	if ic := config.GetInfluxConfig(); ic.Enabled {
		m := influx.NewManager(a.dbLog.With().Str("component", "influx").Logger(), ic)
		if err := m.Connect(ctx); err != nil {
			a.log.Warn("export timings disabled", "error", err)
		} else {
			defer m.Close()
			opts = append(opts, export.WithRecorder(influx.NewRecorder(m)))
		}
	}

	s, err := a.newSession(doc)
	if err != nil {
		return err
	}
	if err := s.Export(ctx, export.New(stage, writer, opts...)); err != nil {
		return err
	}
	for _, f := range files() {
		fmt.Fprintln(a.stdout, f)
	}
	return nil
}
