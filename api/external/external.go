/* external.go
 * Contains the discord webhook notifier. After a match is submitted the refreshed summary is posted to the
 * configured webhook as an embed
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"fmt"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const (
	colourWin  = 0x2ecc71
	colourLoss = 0xe74c3c
	colourNone = 0x95a5a6
)

type DiscordNotifier struct {
	executor WebhookExecutor
	webhook  Webhook
}

var _ Notifier = (*DiscordNotifier)(nil)

// NewDiscordNotifier creates a notifier for the given webhook URL
// Preconditions: Receives the executor used to post (normally a *discordgo.Session) and the webhook URL
// Postconditions: Returns the notifier, or an error if the URL is not a discord webhook
func NewDiscordNotifier(executor WebhookExecutor, webhookURL string) (*DiscordNotifier, error) {
	webhook, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{executor: executor, webhook: webhook}, nil
}

// ParseWebhookURL extracts the webhook ID and token
// Preconditions: Receives a URL in the form https://discord.com/api/webhooks/{id}/{token}
// Postconditions: Returns the Webhook, or an error if the URL does not match that form
func ParseWebhookURL(raw string) (Webhook, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Webhook{}, fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Webhook{}, fmt.Errorf("invalid webhook url scheme %q", u.Scheme)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return Webhook{ID: parts[i+1], Token: parts[i+2]}, nil
		}
	}
	return Webhook{}, fmt.Errorf("webhook url %q does not contain /webhooks/{id}/{token}", u.Redacted())
}

// NotifySummary posts the summary to the webhook
// Preconditions: Receives context, the username the summary belongs to, the game type and the summary
// Postconditions: Message is posted, or an error is returned if discord rejected it
func (n *DiscordNotifier) NotifySummary(ctx context.Context, username string, gameType shared.GameType, summary logic.MatchSummary) error {
	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{BuildSummaryEmbed(username, gameType, summary)},
	}

	_, err := n.executor.WebhookExecute(n.webhook.ID, n.webhook.Token, false, params, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post summary to webhook: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user": username,
		"game": gameType,
	}).Debug("summary posted to webhook")
	return nil
}

// BuildSummaryEmbed formats a summary as a discord embed. The colour follows the most recent result
func BuildSummaryEmbed(username string, gameType shared.GameType, summary logic.MatchSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's %s summary", username, gameType.DisplayName()),
		Description: logic.FormatSummary(username, gameType, summary),
		Color:       colourNone,
	}

	if len(summary.RecentForm) > 0 {
		if summary.RecentForm[0] == shared.Win {
			embed.Color = colourWin
		} else {
			embed.Color = colourLoss
		}
	}

	if summary.TotalMatches == 0 {
		return embed
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Win rate", Value: fmt.Sprintf("%d%%", summary.WinRate), Inline: true},
		{Name: "Longest streak", Value: fmt.Sprintf("%d", summary.LongestWinStreak), Inline: true},
		{Name: "Favourite map", Value: summary.FavoriteMap, Inline: true},
		{Name: "Rank", Value: summary.RankProgress.CurrentRank, Inline: true},
	}
	return embed
}
