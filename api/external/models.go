/* models.go
 * This file contains the interfaces and models used by the external package when posting data to external services
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"

	"github.com/bwmarrin/discordgo"
)

// Notifier publishes a user's refreshed summary somewhere outside the service
type Notifier interface {
	NotifySummary(ctx context.Context, username string, gameType shared.GameType, summary logic.MatchSummary) error
}

// WebhookExecutor is the subset of discordgo.Session used to post to a webhook. Allows for mocking in tests
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Webhook identifies a discord webhook
type Webhook struct {
	ID    string
	Token string
}

// NoopNotifier is used when no webhook is configured
type NoopNotifier struct{}

func (NoopNotifier) NotifySummary(context.Context, string, shared.GameType, logic.MatchSummary) error {
	return nil
}
