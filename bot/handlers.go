/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"gaming-companion/api/api"
	"gaming-companion/api/shared"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const (
	summaryUsage = "Usage: `$summary <game>` where game is valorant or cs2"
	submitUsage  = "Usage: `$submit <game> <win|loss> <score> <map> <duration> <kills> <deaths> <assists>`. Maps with spaces need to be encased in \" (e.g. \"Dust 2\")"
	rankUsage    = "Usage: `$rank <game> <rank>`"
)

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Gaming Companion v1.0\n")
	res.WriteString("`$summary <game>`: Shows your win rate, average K/D/A, favourite map, longest win streak, recent form and rank for valorant or cs2\n")
	res.WriteString("`$submit <game> <win|loss> <score> <map> <duration> <kills> <deaths> <assists>`: Records a match (e.g. `$submit val win 13-7 ascent 38 22 12 4`). Duration is in minutes\n")
	res.WriteString("There is fuzzy matching on game and map names, however you should try and have a close match for the best results. Names that contain two or more words need to be encased in \" (e.g. \"Dust 2\")\n")
	res.WriteString("`$rank <game> <rank>`: Sets your current rank, shown in your summary\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// summaryHandler handles the $summary command with a DiscordSession interface
func (b *Bot) summaryHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil || len(args) != 1 {
		session.ChannelMessageSend(message.ChannelID, summaryUsage)
		return
	}

	gameType, err := api.MatchGameType(args[0])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("'%s' is not a supported game. %s", args[0], summaryUsage))
		return
	}

	ctx, cancel := b.commandContext()
	defer cancel()

	user := userFromMessage(message)
	res, err := b.APIPtr.FormatSummary(ctx, user, gameType)
	if err != nil {
		logrus.WithError(err).WithField("user", user.UserID).Error("summary command failed")
		res = fmt.Sprintf("An error occured getting %s's summary", user.Username)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// submitHandler handles the $submit command with a DiscordSession interface
func (b *Bot) submitHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil || len(args) != 8 {
		session.ChannelMessageSend(message.ChannelID, submitUsage)
		return
	}

	match, err := parseSubmission(args)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s\n%s", err, submitUsage))
		return
	}

	ctx, cancel := b.commandContext()
	defer cancel()

	user := userFromMessage(message)
	stored, err := b.APIPtr.SubmitMatch(ctx, user, match)
	var res string
	switch {
	case err == nil:
		res = fmt.Sprintf("%s's %s match on %s has been recorded (%s %s)", user.Username, stored.GameType.DisplayName(), stored.Map, stored.Result, stored.Score)
	case errors.Is(err, api.ErrInvalidInput):
		res = fmt.Sprintf("The match was not recorded: %s", err)
	default:
		logrus.WithError(err).WithField("user", user.UserID).Error("submit command failed")
		res = fmt.Sprintf("An error occured recording %s's match", user.Username)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// rankHandler handles the $rank command with a DiscordSession interface
func (b *Bot) rankHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args, err := commandArgs(message.Content)
	if err != nil || len(args) < 2 {
		session.ChannelMessageSend(message.ChannelID, rankUsage)
		return
	}

	gameType, err := api.MatchGameType(args[0])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("'%s' is not a supported game. %s", args[0], rankUsage))
		return
	}
	rank := strings.Join(args[1:], " ")

	ctx, cancel := b.commandContext()
	defer cancel()

	user := userFromMessage(message)
	res := fmt.Sprintf("%s's %s rank has been set to %s", user.Username, gameType.DisplayName(), rank)
	if err := b.APIPtr.UpdateRank(ctx, user, gameType, rank); err != nil {
		logrus.WithError(err).WithField("user", user.UserID).Error("rank command failed")
		res = fmt.Sprintf("An error occured setting %s's rank", user.Username)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$summary"):
		b.summaryHandler(session, message)

	case startsWith(message.Content, "$submit"):
		b.submitHandler(session, message)

	case startsWith(message.Content, "$rank"):
		b.rankHandler(session, message)
	}
}

// parseSubmission converts the $submit arguments into a match record. Game and map names are normalised by the api
// Preconditions: Receives the 8 arguments after the command
// Postconditions: Returns the match, or an error describing the first argument that could not be parsed
func parseSubmission(args []string) (shared.MatchRecord, error) {
	gameType, err := api.MatchGameType(args[0])
	if err != nil {
		return shared.MatchRecord{}, fmt.Errorf("'%s' is not a supported game", args[0])
	}

	result, err := parseResult(args[1])
	if err != nil {
		return shared.MatchRecord{}, err
	}

	numbers := make([]int, 4)
	names := []string{"duration", "kills", "deaths", "assists"}
	for i, raw := range args[4:8] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return shared.MatchRecord{}, fmt.Errorf("%s must be a whole number, got '%s'", names[i], raw)
		}
		numbers[i] = n
	}

	return shared.MatchRecord{
		GameType: gameType,
		Result:   result,
		Score:    args[2],
		Map:      args[3],
		Duration: numbers[0],
		Kills:    numbers[1],
		Deaths:   numbers[2],
		Assists:  numbers[3],
	}, nil
}

func parseResult(input string) (shared.Result, error) {
	switch strings.ToLower(input) {
	case "win", "w", "won":
		return shared.Win, nil
	case "loss", "l", "lost", "lose":
		return shared.Loss, nil
	default:
		return "", fmt.Errorf("result must be win or loss, got '%s'", input)
	}
}

func userFromMessage(message *discordgo.MessageCreate) shared.User {
	return shared.User{UserID: message.Author.ID, Username: message.Author.Username}
}

func (b *Bot) commandContext() (context.Context, context.CancelFunc) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}
