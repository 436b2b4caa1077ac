/* bot.go
 * Contains the Bot struct and the helpers used to parse discord commands. Requires a discord bot token, and APIPtr
 * both of which are passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"gaming-companion/api/api"
	"strings"
	"time"

	"github.com/go-andiamo/splitter"
)

// DefaultCommandTimeout bounds the time a single command may spend in the api
const DefaultCommandTimeout = 10 * time.Second

type Bot struct {
	BotToken string
	APIPtr   *api.API
	Timeout  time.Duration
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("api is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Timeout:  DefaultCommandTimeout,
	}, nil
}

// commandArgs splits a command message into its arguments, dropping the command itself
// Preconditions: Receives the message content, e.g. `$submit cs2 win 13-9 "Dust 2" 41 22 15 4`
// Postconditions: Returns the arguments with surrounding quotes removed. Words inside double quotes are kept together
func commandArgs(content string) ([]string, error) {
	// splitter is used here instead of strings.Fields so quoted map names and ranks containing spaces stay as one argument
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, err
	}

	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("could not parse command: %w", err)
	}

	args := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			continue
		}
		part = strings.NewReplacer("\"", "", "“", "", "”", "").Replace(part)
		part = strings.TrimSpace(part)
		if part != "" {
			args = append(args, part)
		}
	}
	return args, nil
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
