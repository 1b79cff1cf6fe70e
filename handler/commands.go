package handler

import (
	"strings"

	"HelpBot/conversation"

	"github.com/go-telegram/bot/models"
)

const (
	startCommand     = "/start"
	startHelpCommand = "/starthelp"
	skipCommand      = "/skip"
	cancelCommand    = "/cancel"
	helpCommand      = "/help"
)

// eventFor classifies a message. A contact card is checked before text so a
// structured contact always wins. Commands other than the conversation ones
// are never treated as data.
func eventFor(msg *models.Message, from conversation.Sender) (conversation.Event, bool) {
	switch {
	case msg.Contact != nil:
		return conversation.SharedContact{
			Sender:    from,
			FirstName: msg.Contact.FirstName,
			LastName:  msg.Contact.LastName,
			Phone:     msg.Contact.PhoneNumber,
			Text:      msg.Text,
		}, true
	case msg.Location != nil:
		return conversation.SharedLocation{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		}, true
	case strings.HasPrefix(msg.Text, "/"):
		switch command(msg.Text) {
		case startCommand, startHelpCommand:
			return conversation.Start{Sender: from}, true
		case skipCommand:
			return conversation.Skip{}, true
		case cancelCommand:
			return conversation.Cancel{}, true
		}
		return nil, false
	case strings.TrimSpace(msg.Text) != "":
		return conversation.Text{Sender: from, Text: msg.Text}, true
	}
	return nil, false
}

// command returns the command word of text, without arguments or a
// "@botname" suffix.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}
