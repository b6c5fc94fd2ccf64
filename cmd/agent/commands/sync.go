package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/config"
	"github.com/arcadefleet/hub/pkg/distributor"
)

var once bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the delta-sync loop: game install/update and client self-update",
	Long: `Poll the hub for game assignments and a published client release, install or
update any game whose assigned version differs from what is on disk, and
keep the client software itself up to date.

By default this runs forever, polling every SyncInterval. Pass --once to run
a single pass and exit (useful for scripted/manual invocation).`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&once, "once", false, "Run a single sync pass and exit instead of looping")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAgent(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := InitLogger(cfg.Logging); err != nil {
		return err
	}

	hub := distributor.NewHubClient(cfg.HubURL, cfg.MACAddress, cfg.MachineID)
	dist := distributor.NewDistributor(hub, cfg.GamesRoot)
	updater := distributor.NewSelfUpdater(hub, cfg.CacheDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if once {
		return runSyncPass(ctx, dist, updater)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	logger.Info("agent sync loop started", "interval", cfg.SyncInterval.String())

	if err := runSyncPass(ctx, dist, updater); err != nil {
		logger.Warn("sync pass failed", logger.Err(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := runSyncPass(ctx, dist, updater); err != nil {
				logger.Warn("sync pass failed", logger.Err(err))
			}
		case sig := <-sigCh:
			logger.Info("received shutdown signal, stopping sync loop", "signal", sig.String())
			return nil
		}
	}
}

func runSyncPass(ctx context.Context, dist *distributor.Distributor, updater *distributor.SelfUpdater) error {
	statuses, err := dist.Status(ctx)
	if err != nil {
		return fmt.Errorf("fetch game status: %w", err)
	}

	for _, st := range statuses {
		if !st.UpdateAvailable {
			continue
		}
		logger.Info("installing game update", "game_id", st.GameID, "game_name", st.GameName)
		if err := dist.Install(ctx, st.GameID, func(index, total int, path string) {
			logger.Debug("downloading game file", "game_id", st.GameID, "file", path, "index", index, "total", total)
		}); err != nil {
			logger.Warn("game install failed", "game_id", st.GameID, logger.Err(err))
			continue
		}
		logger.Info("game install complete", "game_id", st.GameID)
	}

	result, err := updater.CheckAndUpdate(ctx)
	if err != nil {
		logger.Warn("client self-update failed", logger.Err(err))
	} else if result.Updated {
		logger.Info("client self-update installed", "from_version", result.FromVersion, "to_version", result.ToVersion)
	}

	return nil
}
