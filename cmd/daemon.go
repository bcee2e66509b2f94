package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/internal/daemon/collector"
	"github.com/grovetools/focusguard/internal/daemon/engine"
	"github.com/grovetools/focusguard/internal/daemon/ingress"
	"github.com/grovetools/focusguard/internal/daemon/pidfile"
	"github.com/grovetools/focusguard/internal/daemon/server"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/internal/dispatch"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/daemon"
	"github.com/grovetools/focusguard/pkg/idle"
	"github.com/grovetools/focusguard/pkg/paths"
	"github.com/grovetools/focusguard/pkg/process"
	"github.com/grovetools/focusguard/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 5 * time.Second
	dispatchQueueSize = 16
)

// NewDaemonCmd returns the daemon command with subcommands.
func NewDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run and manage the focus daemon",
		Long:  "The daemon tracks AI CLI sessions, sitting time and presence, and shows break reminders.",
	}

	cmd.AddCommand(newDaemonStartCmd())
	cmd.AddCommand(newDaemonStopCmd())
	cmd.AddCommand(newDaemonStatusCmd())

	return cmd
}

func newDaemonStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Enables the log file sink; must be set before the first logger is built.
			os.Setenv("FOCUS_DAEMON", "1")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDaemon(ctx, cmd)
		},
	}
}

func runDaemon(ctx context.Context, cmd *cobra.Command) error {
	opts := cli.GetOptions(cmd)
	cfg, cfgPath, err := cli.LoadConfig(opts)
	if err != nil {
		return err
	}
	logging.Reconfigure(cfg.Logging)
	logger := logging.NewLogger("focusd")

	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create state directories: %w", err)
	}

	// 1. Single instance: the ingress socket, then the pidfile.
	in, err := ingress.Listen(paths.IngressSocketPath())
	if err != nil {
		return err
	}
	defer in.Close()

	pidPath := paths.PidFilePath()
	if err := pidfile.Acquire(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pidfile.Release(pidPath); err != nil {
			logger.Errorf("Failed to release pidfile: %v", err)
		}
	}()

	// 2. Engine, collectors and dispatcher.
	sampler, err := process.NewSampler(cfg.Process.Signatures)
	if err != nil {
		return err
	}

	started := time.Now()
	eng := engine.New(store.New(), engine.NewCore(cfg, started, logger), logger)
	eng.Register(collector.NewProcessCollector(cfg.Process.Interval, sampler))
	eng.Register(collector.NewPresenceCollector(cfg.Presence.SampleInterval, idle.NewSource()))
	eng.Register(collector.NewClockCollector(cfg.Sitting.Tick))
	eng.SetIngress(in)
	eng.SetDispatcher(dispatch.NewQueue(dispatch.NewDesktop(), dispatchQueueSize))

	// 3. API server.
	srv := server.New(logger)
	srv.SetBackend(eng)
	srv.SetRunningConfig(server.RunningConfig{
		ConfigFile:    cfgPath,
		IngressSocket: in.Path(),
		PID:           os.Getpid(),
		StartedAt:     started,
	})

	g, gctx := errgroup.WithContext(ctx)

	// 4. Config hot reload.
	watcher, err := daemon.NewConfigWatcher(cli.ConfigDir(opts), 0, func(next *config.Config, file string) {
		logging.Reconfigure(next.Logging)
		u := store.Update{Type: store.UpdateConfig, Source: "config", Payload: engine.ConfigChange{Config: next, Path: file}}
		if err := eng.Submit(gctx, u); err != nil {
			logger.WithError(err).Debug("Config change dropped during shutdown")
		}
	})
	if err != nil {
		logger.WithError(err).Warn("Config hot reload disabled")
	} else {
		g.Go(func() error {
			watcher.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		return eng.Start(gctx)
	})
	g.Go(func() error {
		return srv.ListenAndServe(paths.APISocketPath())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received stop signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown error: %v", err)
		}
		return nil
	})

	logger.WithFields(logrus.Fields{
		"pid":     os.Getpid(),
		"ingress": in.Path(),
		"api":     paths.APISocketPath(),
		"config":  cfgPath,
		"version": version.GetInfo().Short(),
	}).Info("Starting daemon")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}
	logger.Info("Daemon stopped")
	return nil
}

func newDaemonStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			out := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			if !running {
				out.Muted("Daemon is not running")
				return nil
			}

			proc, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := proc.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			out.Success(fmt.Sprintf("Sent SIGTERM to process %d", pid))
			return nil
		},
	}
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}

			out := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			if !running {
				out.WarnPretty("Stopped")
				return errDaemonStopped
			}

			out.Success("Running")
			out.Field("PID", pid)
			out.Field("Ingress socket", paths.IngressSocketPath())
			out.Field("API socket", paths.APISocketPath())
			logFile := ""
			if cfg, _, err := cli.LoadConfig(cli.GetOptions(cmd)); err == nil {
				logFile = cfg.Logging.File
			}
			out.Field("Log file", logging.LogFilePath(logFile))
			return nil
		},
	}
}
