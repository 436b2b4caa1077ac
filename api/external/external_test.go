/* external_test.go
 * Contains unit tests for external.go using a mock webhook executor
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"errors"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	webhookID string
	token     string
	params    *discordgo.WebhookParams
	err       error
	calls     int
}

func (m *mockExecutor) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.calls++
	m.webhookID = webhookID
	m.token = token
	m.params = data
	if m.err != nil {
		return nil, m.err
	}
	return &discordgo.Message{}, nil
}

func sampleSummary() logic.MatchSummary {
	return logic.MatchSummary{
		TotalMatches:     4,
		Wins:             3,
		Losses:           1,
		WinRate:          75,
		AverageKDA:       logic.AverageKDA{Kills: 20, Deaths: 14.5, Assists: 6},
		FavoriteMap:      "Mirage",
		LongestWinStreak: 2,
		RecentForm:       []shared.Result{shared.Loss, shared.Win, shared.Win, shared.Win},
		RankProgress:     logic.NewRankProgress("Gold Nova II"),
	}
}

// region ParseWebhookURL tests

func TestParseWebhookURL_Valid(t *testing.T) {
	webhook, err := ParseWebhookURL("https://discord.com/api/webhooks/123456/abc-token")
	require.NoError(t, err)
	assert.Equal(t, "123456", webhook.ID)
	assert.Equal(t, "abc-token", webhook.Token)

	webhook, err = ParseWebhookURL("  https://discord.com/api/v10/webhooks/42/tok/  ")
	require.NoError(t, err)
	assert.Equal(t, "42", webhook.ID)
	assert.Equal(t, "tok", webhook.Token)
}

func TestParseWebhookURL_Invalid(t *testing.T) {
	cases := []string{
		"",
		"ftp://discord.com/api/webhooks/1/2",
		"https://discord.com/api/webhooks/123",
		"https://discord.com/api/channels/1/2",
		"://bad",
	}
	for _, c := range cases {
		_, err := ParseWebhookURL(c)
		assert.Error(t, err, "expected error for %q", c)
	}
}

// endregion

// region NotifySummary tests

func TestNotifySummary_PostsEmbed(t *testing.T) {
	exec := &mockExecutor{}
	n, err := NewDiscordNotifier(exec, "https://discord.com/api/webhooks/123/token")
	require.NoError(t, err)

	err = n.NotifySummary(context.Background(), "TestUser", shared.CS2, sampleSummary())
	require.NoError(t, err)

	assert.Equal(t, 1, exec.calls)
	assert.Equal(t, "123", exec.webhookID)
	assert.Equal(t, "token", exec.token)
	require.Len(t, exec.params.Embeds, 1)
	assert.Equal(t, "TestUser's Counter-Strike 2 summary", exec.params.Embeds[0].Title)
}

func TestNotifySummary_ExecutorError(t *testing.T) {
	exec := &mockExecutor{err: errors.New("HTTP 404 Not Found")}
	n, err := NewDiscordNotifier(exec, "https://discord.com/api/webhooks/123/token")
	require.NoError(t, err)

	err = n.NotifySummary(context.Background(), "TestUser", shared.Valorant, sampleSummary())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to post summary to webhook")
}

func TestNewDiscordNotifier_BadURL(t *testing.T) {
	_, err := NewDiscordNotifier(&mockExecutor{}, "not a webhook")
	assert.Error(t, err)
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.NotifySummary(context.Background(), "u", shared.Valorant, logic.MatchSummary{}))
}

// endregion

// region BuildSummaryEmbed tests

func TestBuildSummaryEmbed_Fields(t *testing.T) {
	embed := BuildSummaryEmbed("TestUser", shared.CS2, sampleSummary())

	assert.Equal(t, colourLoss, embed.Color)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "75%", embed.Fields[0].Value)
	assert.Equal(t, "2", embed.Fields[1].Value)
	assert.Equal(t, "Mirage", embed.Fields[2].Value)
	assert.Equal(t, "Gold Nova II", embed.Fields[3].Value)
	assert.Contains(t, embed.Description, "Matches: 4 (3W / 1L), win rate 75%")
}

func TestBuildSummaryEmbed_ZeroState(t *testing.T) {
	empty := logic.BuildSummary(nil, "")
	embed := BuildSummaryEmbed("TestUser", shared.Valorant, empty)

	assert.Equal(t, colourNone, embed.Color)
	assert.Empty(t, embed.Fields)
	assert.Contains(t, embed.Description, "No matches recorded yet")
}

func TestBuildSummaryEmbed_WinColour(t *testing.T) {
	summary := sampleSummary()
	summary.RecentForm = []shared.Result{shared.Win}
	assert.Equal(t, colourWin, BuildSummaryEmbed("u", shared.Valorant, summary).Color)
}

// endregion
