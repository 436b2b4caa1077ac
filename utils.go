/* utils.go
 * Utility functions used by main to assemble the optional collaborators from the configuration
 * Authors: Zachary Bower
 */

package main

import (
	"context"

	"gaming-companion/api/cache"
	"gaming-companion/api/external"
	"gaming-companion/config"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// parseRunMode reports which front ends the mode starts
// Preconditions: Receives a mode accepted by config.Validate
// Postconditions: Returns whether to run the bot and the web server
func parseRunMode(mode string) (runBot bool, runWeb bool) {
	switch mode {
	case config.ModeBot:
		return true, false
	case config.ModeWeb:
		return false, true
	default:
		return true, true
	}
}

// newSummaryCache returns a Redis backed cache when an address is configured, otherwise an in process cache
func newSummaryCache(ctx context.Context, cfg *config.Config) (cache.SummaryCache, error) {
	if cfg.Redis.Address == "" {
		logrus.Debug("using in memory summary cache")
		return cache.NewMemoryCache(cfg.Cache.TTL), nil
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)
	if err != nil {
		return nil, err
	}
	logrus.WithField("addr", cfg.Redis.Address).Info("using redis summary cache")
	return cache.NewRedisCache(rdb, cfg.Cache.TTL), nil
}

// newNotifier returns a webhook notifier when a webhook is configured, otherwise notifications are dropped
func newNotifier(cfg *config.Config) (external.Notifier, error) {
	if cfg.Discord.Webhook == "" {
		return external.NoopNotifier{}, nil
	}

	// webhook execution is authorised by the token in the url, the session needs no bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	return external.NewDiscordNotifier(session, cfg.Discord.Webhook)
}
