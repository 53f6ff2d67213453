package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledmatrix/internal/app"
	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/ledmatrix"
	"github.com/coreman2200/ledmatrix/internal/tests"
	"github.com/coreman2200/ledmatrix/internal/widget"
	"github.com/coreman2200/ledmatrix/internal/ws"
)

func main() {
	var (
		listModules = flag.Bool("list-modules", false, "list attached LED matrix modules and exit")
		listWidgets = flag.Bool("list-widgets", false, "list available widgets and exit")
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly     = flag.Bool("sim", false, "draw on the console instead of hardware")
		testPattern = flag.String("test-pattern", "", "paint a test pattern: sweep | columns | full")
		previewAddr = flag.String("preview", "", "HTTP listen address of the websocket preview (overrides preview_addr)")
		writeConfig = flag.String("write-config", "", "write the effective configuration to this path and exit")
		imagePath   = flag.String("image", "", "show a PNG, GIF or JPEG across the panels and exit")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *listWidgets {
		for _, d := range widget.Catalog {
			fmt.Printf("%-8s %-10s %s\n", d.Kind, d.Shape, d.Summary)
		}
		return
	}
	if *listModules {
		os.Exit(listAttached())
	}

	kind, err := tests.ParseKind(*testPattern)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -test-pattern")
	}

	// ---- Config: a missing file falls back to the built-in layout ----
	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", *configPath).Msg("no config file; using the default layout")
		cfg = config.Default()
	case err != nil:
		log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
	}
	if *previewAddr != "" {
		cfg.PreviewAddr = *previewAddr
	}
	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *writeConfig).Msg("write config failed")
		}
		log.Info().Str("path", *writeConfig).Msg("config written")
		return
	}

	core, err := app.InitCore(cfg, widget.HostSources(), app.HWConfig{Sim: *simOnly})
	if errors.Is(err, app.ErrNoModules) {
		log.Error().Msg("no LED matrix modules found; use -sim to run without hardware")
		os.Exit(1)
	}
	if err != nil {
		for _, d := range diagnostics.FromError(err) {
			log.Error().Str("code", d.Code).Fields(d.Evidence).Msg(d.Detail)
		}
		log.Fatal().Msg("startup failed")
	}
	if *imagePath != "" {
		os.Exit(showImage(core, *imagePath))
	}
	core.UseTestPattern(kind)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Preview server (optional) ----
	var srv *http.Server
	if cfg.PreviewAddr != "" {
		state := ws.NewState(core.Panels, cfg.Interval, cfg.DrawMode)
		core.Eng.Preview = state
		core.OnDiag = state.PushDiag
		srv = &http.Server{
			Addr:         cfg.PreviewAddr,
			Handler:      withCORS(state.Handler()),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.PreviewAddr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("preview server stopped")
			}
		}()
	}

	log.Info().Dur("interval", cfg.Interval).Str("test_pattern", string(kind)).Msg("rendering")
	core.Run(ctx, cfg.Interval)
	log.Info().Msg("shutting down")

	if srv != nil {
		_ = srv.Close()
	}
	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("closing modules")
	}
}

// showImage draws the file at path once and releases the modules, which
// keep showing it.
func showImage(core *app.Core, path string) int {
	core.SleepOnExit = false
	defer core.Close()
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Msg("open image")
		return 1
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("decode image")
		return 1
	}
	if err := core.ShowImage(img); err != nil {
		log.Error().Err(err).Msg("show image")
		return 1
	}
	log.Info().Str("format", format).Stringer("bounds", img.Bounds()).Msg("image shown")
	return 0
}

// listAttached prints every attached module with its firmware version.
func listAttached() int {
	sessions, err := ledmatrix.NewDirectory().Detect()
	if err != nil && len(sessions) == 0 {
		log.Error().Err(err).Msg("module discovery failed")
		return 1
	}
	if len(sessions) == 0 {
		fmt.Println("no modules found")
		return 0
	}
	for _, s := range sessions {
		fw := "unknown"
		if s.Firmware != (ledmatrix.Version{}) {
			fw = s.Firmware.String()
		}
		fmt.Printf("%s\tserial=%s\tfirmware=%s\n", s.Info.Name, s.Info.SerialNumber, fw)
		_ = s.Close()
	}
	return 0
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
