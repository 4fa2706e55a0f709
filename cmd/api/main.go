package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"session-analytics-service/internal/config"
	"session-analytics-service/internal/logging"

	_ "session-analytics-service/docs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	command := &cobra.Command{
		Use:           "session-analytics",
		Short:         "Sessionize the event stream and serve browse, insight and cube exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewLogger()
			defer func() { _ = log.Sync() }()

			cfg, err := config.Load(viper.New(), configFile)
			if err != nil {
				log.Errorw("Invalid configuration", "error", err)
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), log)
			if err := run(ctx, cfg); err != nil {
				log.Errorw("Service stopped with error", "error", err)
				return err
			}
			return nil
		},
	}

	command.Flags().StringVar(&configFile, "config", "", "Path to a config file (yaml, json or toml). Env vars SESSIONS_* override it.")
	return command
}

func run(parent context.Context, cfg *config.Config) error {
	log := logging.FromContext(parent)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Errorw("Failed to close stores", "error", err)
		}
	}()

	es, err := openStream(ctx, cfg)
	if err != nil {
		return err
	}

	svc, err := newService(ctx, cfg, st, es)
	if err != nil {
		_ = es.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	// the consumer only stops on a drained stream, a fatal dispatch error or
	// the hard shutdown deadline
	consumerCtx, stopConsumer := context.WithCancel(context.WithoutCancel(ctx))
	defer stopConsumer()
	consumerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	g.Go(func() error {
		log.Infow("Server started", "addr", cfg.HTTP.Addr)
		if err := svc.app.Listen(cfg.HTTP.Addr); err != nil {
			return fmt.Errorf("fiber stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer close(tickerDone)
		return svc.ticker.Run(gctx)
	})
	g.Go(func() error {
		defer close(consumerDone)
		return svc.consumer.Run(consumerCtx)
	})
	if st.maintain != nil {
		g.Go(func() error { return st.maintain(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := svc.app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorw("Fiber shutdown error", "error", err)
		}
		<-tickerDone
		if err := es.Close(); err != nil {
			log.Errorw("Failed to close stream", "error", err)
		}
		select {
		case <-consumerDone:
		case <-shutdownCtx.Done():
			log.Warnw("Consumer did not drain in time",
				"published", es.Published(),
				"processed", svc.consumer.Processed(),
			)
			stopConsumer()
			<-consumerDone
		}
		return nil
	})

	runErr := g.Wait()
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	finalizeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := svc.window.FinalizeAll(finalizeCtx); err != nil {
		log.Errorw("Failed to finalize active sessions", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	log.Info("Server exiting")
	return runErr
}
