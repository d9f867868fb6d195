package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signupguard/signupguard/internal/command"
	"github.com/signupguard/signupguard/internal/config"
	"github.com/signupguard/signupguard/internal/event"
	"github.com/signupguard/signupguard/internal/logging"
	"github.com/signupguard/signupguard/internal/maintenance"
	"github.com/signupguard/signupguard/internal/observability"
	"github.com/signupguard/signupguard/internal/ratelimit"
	"github.com/signupguard/signupguard/internal/slack"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var log = logging.New("main")

func newRunCmd() *cobra.Command {
	var configPath string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to Slack and forward operator commands to the rule engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return errors.New("config path is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.LoadSecrets(); err != nil {
				return err
			}
			if err := cfg.ValidateSecrets(); err != nil {
				return err
			}
			return runBot(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level")

	return cmd
}

func runBot(ctx context.Context, cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logging.SetGlobalLevel(level)
	logging.SetColored(cfg.Colored())

	events := event.NewChannel(cfg.Events.Buffer)
	defer events.Close()

	runner := maintenance.NewRunner(
		cfg.ResolvePath(cfg.Maintenance.Upgrade),
		cfg.ResolvePath(cfg.Maintenance.Restart),
	)
	interp, err := command.New(events, runner)
	if err != nil {
		return err
	}

	if cfg.Logging.CommandLog != "" {
		commandLog, closer, err := logging.OpenCommandLog(cfg.ResolvePath(cfg.Logging.CommandLog))
		if err != nil {
			return err
		}
		defer func() { _ = closer() }()
		interp.SetCommandLog(commandLog)
	}

	var journal *logging.EventJournal
	if cfg.Events.Journal != "" {
		j, closer, err := logging.OpenEventJournal(cfg.ResolvePath(cfg.Events.Journal))
		if err != nil {
			return err
		}
		defer func() { _ = closer() }()
		journal = j
	}

	liveness := make(chan slack.Liveness, 1)
	client, err := slack.New(slack.Config{
		HandshakeURL:      cfg.Slack.HandshakeURL,
		Token:             cfg.Secrets.SlackBotToken,
		BotID:             cfg.Slack.BotID,
		Channel:           cfg.Slack.Channel,
		ReconnectInterval: cfg.Slack.ReconnectInterval,
		HandshakeTimeout:  cfg.Slack.HandshakeTimeout,
	}, interp, liveness)
	if err != nil {
		return err
	}
	if cfg.RateLimit.Enabled {
		client.SetLimiter(ratelimit.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	var metrics *observability.Metrics
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		metrics = observability.NewMetrics(reg)
		interp.SetMetrics(metrics)
		client.SetMetrics(metrics)

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)

	g.Go(func() error {
		if err := client.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return forwardEvents(gctx, events, journal, metrics)
	})
	g.Go(func() error {
		watchLiveness(gctx, liveness, metrics)
		return nil
	})

	if metricsSrv != nil {
		g.Go(func() error {
			log.Info("metrics listening on %s", cfg.Metrics.Listen)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		})
	}

	log.Info("signupguard started, control channel %s", cfg.Slack.Channel)
	err = g.Wait()
	log.Info("signupguard stopped")
	return err
}

// forwardEvents is the single consumer of the event channel. It stands in for
// the rule engine by appending every event to the journal the engine tails.
func forwardEvents(ctx context.Context, events *event.Channel, journal *logging.EventJournal, metrics *observability.Metrics) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events.Events():
			if !ok {
				return nil
			}
			log.Info("event %s", ev.Type())
			metrics.ObserveEvent(string(ev.Type()))
			if journal == nil {
				continue
			}
			if err := journal.Write(logging.NewEventRecord(ev, time.Now())); err != nil {
				log.Error("write event journal: %v", err)
			}
		}
	}
}

func watchLiveness(ctx context.Context, liveness <-chan slack.Liveness, metrics *observability.Metrics) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-liveness:
			metrics.ObserveLiveness(time.Now())
		}
	}
}
