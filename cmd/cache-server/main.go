package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/leonardcser/recent-mcp/internal/cache"
	"github.com/leonardcser/recent-mcp/internal/config"
	"github.com/leonardcser/recent-mcp/internal/journal"
	"github.com/leonardcser/recent-mcp/internal/logger"
	"github.com/leonardcser/recent-mcp/internal/recency"
)

// journalMaxRecords bounds the touch history kept on disk.
const journalMaxRecords = 10_000

func main() {
	if err := logger.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	err := run()
	if err != nil {
		logger.Errorf("cache daemon: %v", err)
	}
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rc, err := recency.New(cfg.Capacity)
	if err != nil {
		return err
	}

	var j *journal.Journal
	if cfg.JournalPath != "" {
		j, err = journal.Open(cfg.JournalPath, journal.Options{MaxRecords: journalMaxRecords})
		if err != nil {
			// The list works without history; keep serving.
			logger.Warnf("journal disabled: %v", err)
			j = nil
		} else {
			defer j.Close()
			logger.Infof("journal at %s, run %s", cfg.JournalPath, j.RunID())
		}
	}

	// Ensure socket dir exists and remove stale socket
	sock := cfg.SocketPath
	_ = os.MkdirAll(filepath.Dir(sock), 0o755)
	_ = os.Remove(sock)

	l, err := net.Listen("unix", sock)
	if err != nil {
		return err
	}
	defer l.Close()
	_ = os.Chmod(sock, 0o600)

	logger.Infof("cache daemon listening on %s (capacity %d)", sock, rc.Cap())
	if err := cache.Serve(ctx, l, cache.NewService(rc, j)); err != nil {
		return err
	}
	logger.Infof("cache daemon stopped")
	return nil
}
