package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/touchline-tv/touchline/internal/config"
	"github.com/touchline-tv/touchline/internal/database"
	"github.com/touchline-tv/touchline/internal/epg"
	"github.com/touchline-tv/touchline/internal/highlights"
	internalhttp "github.com/touchline-tv/touchline/internal/http"
	"github.com/touchline-tv/touchline/internal/http/handlers"
	"github.com/touchline-tv/touchline/internal/httpclient"
	"github.com/touchline-tv/touchline/internal/match"
	"github.com/touchline-tv/touchline/internal/models"
	"github.com/touchline-tv/touchline/internal/observability"
	"github.com/touchline-tv/touchline/internal/playlist"
	"github.com/touchline-tv/touchline/internal/repository"
	"github.com/touchline-tv/touchline/internal/scheduler"
	"github.com/touchline-tv/touchline/internal/service"
	"github.com/touchline-tv/touchline/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the touchline server",
	Long: `Start the touchline HTTP server and background refresh jobs.

The server provides:
- REST API for the lineup, the program guide, and ranked fixtures
- Playlist and EPG source management
- A goal event stream over SSE
- OpenAPI documentation at /docs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("database-dsn", "", "Database DSN (file path for sqlite)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if host, ok := stringOverride(cmd.Flags(), "host"); ok {
		cfg.Server.Host = host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if dsn, ok := stringOverride(cmd.Flags(), "database-dsn"); ok {
		cfg.Database.DSN = dsn
	}

	logger := observability.NewLogger(cfg.Logging)
	observability.SetDefault(logger)

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	playlistSourceRepo := repository.NewPlaylistSourceRepository(db.DB)
	epgSourceRepo := repository.NewEpgSourceRepository(db.DB)

	fetchConfig := httpclient.DefaultConfig()
	fetchConfig.Timeout = cfg.Refresh.HTTPTimeout
	fetchConfig.Logger = logger
	fetchConfig.UserAgent = version.UserAgent()
	fetcher := httpclient.New(fetchConfig)

	store := epg.NewStore()
	lineupService := service.NewLineupService(playlistSourceRepo, fetcher, playlist.NewBuilder(), logger)
	guideService := service.NewGuideService(epgSourceRepo, fetcher, store, logger)

	highlightsService, err := buildHighlights(cfg, fetcher, logger)
	if err != nil {
		return err
	}

	finder := func(matchTitle string) []models.LocalMatchChannel {
		return match.FindLocalMatches(matchTitle, lineupService.Channels(), store.Snapshot(), time.Now())
	}
	watcher := highlights.NewWatcher(highlightsService, finder, cfg.Highlights.GoalPollInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(logger)
	jobs := []struct {
		name string
		spec string
		run  scheduler.JobFunc
	}{
		{"playlist-refresh", cfg.Refresh.PlaylistCron, lineupService.Refresh},
		{"guide-refresh", cfg.Refresh.GuideCron, guideService.Refresh},
		{"highlights-refresh", cfg.Refresh.HighlightsCron, func(ctx context.Context) error {
			highlightsService.Invalidate(time.Now().UTC())
			_, err := highlightsService.GetHighlights(ctx, time.Now().UTC())
			return err
		}},
	}
	for _, job := range jobs {
		if err := sched.Register(job.name, job.spec, true, job.run); err != nil {
			return fmt.Errorf("registering %s job: %w", job.name, err)
		}
	}
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	go watcher.Run(ctx)

	serverConfig := internalhttp.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
	}
	server := internalhttp.NewServer(serverConfig, logger, version.Version)

	healthHandler := handlers.NewHealthHandler(version.Version).WithDB(db)
	healthHandler.Register(server.API())

	lineupHandler := handlers.NewLineupHandler(lineupService, guideService)
	lineupHandler.Register(server.API())

	highlightsHandler := handlers.NewHighlightsHandler(highlightsService, lineupService, store)
	highlightsHandler.Register(server.API())

	playlistSourceHandler := handlers.NewPlaylistSourceHandler(playlistSourceRepo, lineupService)
	playlistSourceHandler.Register(server.API())

	epgSourceHandler := handlers.NewEpgSourceHandler(epgSourceRepo, guideService)
	epgSourceHandler.Register(server.API())

	goalEventsHandler := handlers.NewGoalEventsHandler(watcher, logger)
	server.Router().Get("/api/v1/highlights/events", goalEventsHandler.ServeHTTP)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("starting touchline server",
		slog.String("address", cfg.Server.Address()),
		slog.String("version", version.Version),
	)

	return server.ListenAndServe(ctx)
}

// buildHighlights assembles the fixture providers and the ranked service.
// The football-data.org client is only registered when a token is
// configured; TheSportsDB works with the shared free-tier key.
func buildHighlights(cfg *config.Config, fetcher *httpclient.Client, logger *slog.Logger) (*highlights.Service, error) {
	var providers []highlights.Provider
	if cfg.Highlights.FootballDataToken != "" {
		providers = append(providers, highlights.NewFootballDataClient(
			cfg.Highlights.FootballDataURL,
			cfg.Highlights.FootballDataToken,
			fetcher,
			logger,
		))
	} else {
		logger.Info("football-data provider disabled: no API token configured")
	}
	providers = append(providers, highlights.NewSportsDBClient(
		cfg.Highlights.SportsDBURL,
		cfg.Highlights.SportsDBKey,
		fetcher,
		logger,
	))

	table := highlights.DefaultPriorityTable()
	if cfg.Highlights.PriorityTablePath != "" {
		loaded, err := highlights.LoadPriorityTable(cfg.Highlights.PriorityTablePath)
		if err != nil {
			return nil, fmt.Errorf("loading priority table: %w", err)
		}
		table = loaded
	}

	cache := highlights.NewCache(cfg.Highlights.CacheTTL)
	return highlights.NewService(providers, table, cache, logger), nil
}
