package lifecycle

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// WaitForShutdown blocks until SIGINT or SIGTERM arrives.
func WaitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	waitForSignal(logger, sigCh)
}

func waitForSignal(logger *zap.Logger, sigCh <-chan os.Signal) {
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
