package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rheminthsimeon/melodistiq/constants"
)

func initSentry(logger *slog.Logger) bool {
	dsn := constants.GetSentryDSN()
	if dsn == "" {
		return false
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      os.Getenv("SENTRY_ENVIRONMENT"),
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		logger.Warn("sentry disabled", slog.Any("error", err))
		return false
	}
	return true
}

func serve(port int) error {
	logger := newLogger(os.Stdout)
	if initSentry(logger) {
		defer sentry.Flush(2 * time.Second)
	}

	// cancelled only after shutdown has drained, which stops any separation
	// still running
	base, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     NewRouter(base, newAnalyzer(logger), logger, constants.GetWorkDir()),
		BaseContext: func(net.Listener) context.Context { return base },
		ReadTimeout: 5 * time.Minute,
		IdleTimeout: 60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down server...")
		ctx, stop := context.WithTimeout(context.Background(), 30*time.Second)
		defer stop()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
		cancel()
		close(done)
	}()

	logger.Info("server starting", slog.Int("port", port), slog.String("work_dir", constants.GetWorkDir()))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
