/* main.go
 * The "main" method for running the companion. Depending on the configured mode it starts the Discord bot, the HTTP
 * server or both, sharing a single API, cache and notification queue
 * Usage: go run . --mode=all --config=config.yaml
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gaming-companion/api/api"
	"gaming-companion/api/store"
	"gaming-companion/api/tasks"
	"gaming-companion/bot"
	"gaming-companion/config"
	"gaming-companion/web"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	cfg.InitLogging()

	// run returns instead of exiting so its deferred shutdown steps always execute
	if err := run(cfg); err != nil {
		logrus.WithError(err).Fatal("companion exited with error")
	}
	logrus.Info("companion stopped")
}

// run assembles the companion and blocks until a signal arrives or a front end fails
// Preconditions: Receives a validated Config
// Postconditions: The task queue has been drained and the mongo client disconnected. Returns the startup error or
// the errors of every failed front end
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	s, err := store.NewStore(connectCtx, cfg.Mongo.Database, cfg.Mongo.URI)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() {
		if err := s.Client.Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Error("failed to disconnect from mongo")
		}
	}()

	summaryCache, err := newSummaryCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	notifier, err := newNotifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	queue := tasks.NewMemoryQueue(cfg.Tasks.MaxAttempts)
	companion := api.New(s, summaryCache, queue, notifier)
	return serve(ctx, cfg, companion, queue)
}

// serve runs the task processor and the front ends selected by the mode until ctx is cancelled or a front end fails
// Preconditions: Receives context, a validated Config, the API and the queue its notifications are submitted to
// Postconditions: The processor has been stopped and the queue drained, whatever the outcome. Returns the startup
// error or the errors of every failed front end
func serve(ctx context.Context, cfg *config.Config, companion *api.API, queue tasks.Queue) error {
	runBot, runWeb := parseRunMode(cfg.Mode)
	var b *bot.Bot
	if runBot {
		var err error
		if b, err = bot.NewBot(cfg.Discord.Token, companion); err != nil {
			return fmt.Errorf("failed to initialize bot: %w", err)
		}
	}

	processor, err := tasks.NewProcessor(queue, companion.HandleTask, cfg.Tasks.Interval, cfg.Tasks.Timeout)
	if err != nil {
		return fmt.Errorf("failed to initialize task processor: %w", err)
	}
	processor.Start()
	defer func() {
		if err := processor.Stop(); err != nil {
			logrus.WithError(err).Warn("task processor stopped with errors")
		}
	}()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
	)
	// a front end that fails stops the others
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(runCtx); err != nil {
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelRun()
			}
		}()
	}

	if runBot {
		start("bot", b.Run)
	}
	if runWeb {
		webCfg := web.Config{
			Addr:      cfg.HTTP.Bind,
			API:       companion,
			RateLimit: cfg.HTTP.RateLimit,
			Burst:     cfg.HTTP.Burst,
		}
		start("web", func(ctx context.Context) error { return web.Start(ctx, webCfg) })
	}

	logrus.WithField("mode", cfg.Mode).Info("companion started")
	wg.Wait()
	return result.ErrorOrNil()
}
