package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/config"
	"github.com/NeuralTrust/TrustCloak/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/TrustCloak/pkg/infra/logger"
	_ "github.com/NeuralTrust/TrustCloak/pkg/infra/migrations"
	"github.com/NeuralTrust/TrustCloak/pkg/server"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const (
	loadTimeout     = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		log.Println(err)
	}
	cfg := config.GetConfig()

	logger, err := infraLogger.New(infraLogger.Options{
		File:    os.Getenv("LOG_FILE"),
		Console: true,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := printToken(cfg, os.Args[2:]); err != nil {
			logger.Close()
			log.Fatal(err)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("trustcloak stopped with error")
		logger.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *infraLogger.Logger) error {
	container, err := dependency_container.NewContainer(cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	if err := container.LoadCache(loadTimeout); err != nil {
		logger.WithError(err).Warn("bot cache snapshot could not be restored, starting empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container.StartListeners(ctx)

	servers := []server.Server{
		server.NewRedirectServer(server.RedirectServerDI{
			HandlerTransport: container.HandlerTransport,
			Config:           cfg,
			Logger:           logger.Logger,
		}),
		server.NewAdminServer(server.AdminServerDI{
			MiddlewareTransport: container.MiddlewareTransport,
			HandlerTransport:    container.HandlerTransport,
			Config:              cfg,
			Logger:              logger.Logger,
		}),
	}
	if cfg.Metrics.Enabled {
		servers = append(servers, server.NewMetricsServer(cfg, logger.Logger))
	} else {
		logger.Info("prometheus metrics are disabled by configuration")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(srv.Run)
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		container.Shutdown(shutdownCtx)
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("trustcloak stopped")
	return nil
}

func printToken(cfg *config.Config, args []string) error {
	if cfg.Server.SecretKey == "" {
		return errors.New("server.secret_key is not configured")
	}
	subject := "operator"
	if len(args) > 0 && args[0] != "" {
		subject = args[0]
	}
	token, err := dependency_container.AdminToken(cfg, subject)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
