package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dagbolade/proposal-box/internal/auth"
	"github.com/dagbolade/proposal-box/internal/locallog"
	"github.com/dagbolade/proposal-box/internal/reader"
	"github.com/dagbolade/proposal-box/internal/recorder"
	"github.com/dagbolade/proposal-box/internal/remote"
	"github.com/dagbolade/proposal-box/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogger()

	log.Info().Msg("starting proposal box")

	ctx, cancel := setupSignalHandler()
	defer cancel()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}

	log.Info().Msg("proposal box stopped successfully")
}

func run(ctx context.Context) error {
	localStore, err := initLocalLog()
	if err != nil {
		return err
	}
	defer func() {
		if err := localStore.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close local log")
		}
	}()

	remoteCfg, coll := initRemote(ctx)
	if mc, ok := coll.(*remote.MongoCollection); ok {
		defer func() {
			if err := mc.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("failed to close remote client")
			}
		}()
	}

	authManager, err := initAuthManager()
	if err != nil {
		return err
	}
	if path := os.Getenv("ADMIN_SECRET_FILE"); path != "" {
		watcher, err := authManager.WatchSecretFile(path)
		if err != nil {
			return err
		}
		defer watcher.Close()

		go func() {
			for p := range watcher.Changed() {
				log.Info().Str("path", p).Msg("admin secret reloaded")
			}
		}()
	}

	readerCfg, err := initReaderConfig()
	if err != nil {
		return err
	}

	rec := recorder.New(remoteCfg, localStore, coll)
	rdr := reader.New(readerCfg, remoteCfg, coll, localStore)

	srv := server.New(server.LoadConfig(), server.Deps{
		Recorder:         rec,
		Loader:           rdr,
		Auth:             authManager,
		RemoteConfigured: remoteCfg.Configured,
	})

	return runServer(ctx, srv)
}

func setupLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		cancel()
	}()

	return ctx, cancel
}

func initLocalLog() (*locallog.SQLiteStore, error) {
	dbPath := getEnv("LOCAL_DB_PATH", "./db/local.db")

	log.Info().Str("path", dbPath).Msg("initializing local log")

	store, err := locallog.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("local log initialized")
	return store, nil
}

// initRemote never fails: a missing or broken remote configuration leaves
// the service in local-only mode.
func initRemote(ctx context.Context) (remote.Config, remote.Collection) {
	cfg := remote.NewConfig(
		os.Getenv("MONGO_URI"),
		getEnv("MONGO_DATABASE", "proposal"),
		getEnv("MONGO_COLLECTION", "responses"),
		time.Duration(getEnvInt("REMOTE_CONNECT_TIMEOUT", 5))*time.Second,
	)

	if !cfg.Configured {
		log.Error().Msg("remote store is NOT configured; answers will only be saved locally")
		return cfg, nil
	}

	coll, err := remote.Connect(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("remote store initialization failed; answers will only be saved locally")
		cfg.Configured = false
		return cfg, nil
	}

	log.Info().Msg("remote store initialized; answers will sync across devices")
	return cfg, coll
}

func initAuthManager() (*auth.Manager, error) {
	log.Info().Msg("initializing admin gate")

	return auth.NewManager(auth.Config{
		Secret:          os.Getenv("ADMIN_PASSWORD"),
		SecretFile:      os.Getenv("ADMIN_SECRET_FILE"),
		SigningKey:      os.Getenv("TOKEN_SIGNING_KEY"),
		TokenExpiration: time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
	})
}

func initReaderConfig() (reader.Config, error) {
	variant, err := reader.ParseVariant(getEnv("READER_VARIANT", string(reader.VariantDetailed)))
	if err != nil {
		return reader.Config{}, err
	}

	loc := time.Local
	if tz := os.Getenv("DISPLAY_TIMEZONE"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return reader.Config{}, err
		}
	}

	return reader.Config{
		Variant:    variant,
		LocalLabel: os.Getenv("LOCAL_ROW_LABEL"),
		Location:   loc,
	}, nil
}

func runServer(ctx context.Context, srv *server.Server) error {
	errChan := make(chan error, 1)

	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
