package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/verdict/api"
	"github.com/oomph-ac/verdict/detection"
	"github.com/oomph-ac/verdict/match"
	"github.com/oomph-ac/verdict/settings"
	"github.com/oomph-ac/verdict/worker"
	"github.com/oomph-ac/verdict/world"
)

func main() {
	path := flag.String("config", "verdict.toml", "path to the settings file, created with defaults if missing")
	flag.Parse()

	conf, err := readSettings(*path)
	if err != nil {
		slog.Error("failed to read settings", "path", *path, "err", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(conf.Server.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Error("failed to initialize sentry", "err", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if addr := conf.Server.StatsViewAddress; addr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	var obstacles []world.Obstacle
	if conf.Server.MapFile != "" {
		if obstacles, err = world.LoadMap(conf.Server.MapFile); err != nil {
			log.Error("failed to load map", "path", conf.Server.MapFile, "err", err)
			os.Exit(1)
		}
		log.Info("map loaded", "path", conf.Server.MapFile, "obstacles", len(obstacles))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := worker.New(conf.Server.Lanes, log)
	var handler detection.Handler = detection.LogHandler{Log: log}
	if conf.Detection.FlagsPerSecond > 0 {
		limited := detection.RateLimited(handler, conf.Detection.FlagsPerSecond, conf.Detection.FlagBurst)
		go limited.Run(ctx, time.Minute, time.Minute*10)
		handler = limited
	}
	registry := match.NewRegistry(log, conf, pool, handler, obstacles)

	srv := &http.Server{
		Addr: conf.Server.Address,
		Handler: api.NewRouter(api.Config{
			Registry:    registry,
			Log:         log,
			CORSOrigins: origins(conf.Server.CORSOrigins),
		}),
		ReadHeaderTimeout: time.Second * 10,
	}

	go func() {
		log.Info("verdict listening", "addr", srv.Addr, "lanes", pool.Lanes())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "err", err)
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down http server", "err", err)
	}
	pool.Close()
	log.Info("verdict stopped")
}

// readSettings loads the settings file at path, creating it with the default settings first if it does
// not exist yet.
func readSettings(path string) (settings.Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
	}
	return settings.Load(path)
}

func origins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
