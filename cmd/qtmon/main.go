package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/qtraffics/qtmon/api"
	"github.com/qtraffics/qtmon/config"
	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/log/loghandler"
	"github.com/qtraffics/qtmon/services"
	"github.com/qtraffics/qtmon/sys/sysmetrics"
	"github.com/qtraffics/qtmon/sys/sysvars"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "qtmon:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := config.NewFlags("qtmon")
	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	flags.Apply(cfg)
	if flags.Debug {
		sysvars.DebugEnabled = true
	}

	handler, err := loghandler.New(cfg.Log)
	if err != nil {
		return ex.Cause(err, "build logger")
	}
	var logger log.Logger = log.New(handler)
	log.SetDefault(logger)

	policy, err := cfg.ResolveDiskPolicy(sysvars.CurrentPlatform)
	if err != nil {
		return err
	}
	collector := sysmetrics.NewCollector(
		sysmetrics.WithLogger(logger),
		sysmetrics.WithSampler(cfg.Sampler),
		sysmetrics.WithDiskPolicy(policy),
	)

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	if flags.Once {
		return printSnapshot(ctx, collector, stdout)
	}

	watcher := sysmetrics.NewWatcher(collector, cfg.Stream.Interval, logger)
	server, err := api.NewServer(collector, watcher, api.Options{
		Listen:         cfg.Listen,
		CacheTTL:       cfg.Cache.TTL,
		CollectTimeout: cfg.CollectTimeout,
		StreamQueue:    cfg.Stream.Queue,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	list := []services.Service{watcher, server}
	if err = services.StartAll(ctx, list...); err != nil {
		return err
	}
	logger.Info("qtmon started",
		slog.String("platform", sysvars.CurrentPlatform.String()),
		slog.String("disk_policy", policy.String()))

	<-ctx.Done()
	logger.Info("shutting down")
	return services.CloseAll(list...)
}

func printSnapshot(ctx context.Context, source sysmetrics.Source, w io.Writer) error {
	snap := source.Collect(ctx)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return ex.Cause(err, "encode snapshot")
	}
	if snap.Degraded() {
		return ex.New("snapshot incomplete")
	}
	return nil
}
