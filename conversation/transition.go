package conversation

import (
	"errors"
	"fmt"
	"strings"

	"HelpBot/model"
)

var (
	// ErrUnexpectedInput is returned for an event the current state does not accept.
	ErrUnexpectedInput = errors.New("unexpected input for current state")
	// ErrNoSession is returned for a non-start event from a user without a conversation.
	ErrNoSession = errors.New("no active conversation")
)

// Flow holds the optional parts of the intake flow.
type Flow struct {
	// ConfirmContacts inserts the contacts verification step before completion.
	ConfirmContacts bool
}

// Outcome is what a transition asks the caller to do besides moving state.
type Outcome struct {
	Prompt  model.Prompt
	Hint    model.Hint
	Deliver bool // hand the record to the notifier
	Discard bool // drop the record without delivery
}

// Transition applies ev to rec in the given state and returns the next state.
// The record is left untouched when an error is returned.
func Transition(flow Flow, state model.State, rec *model.IntakeRecord, ev Event) (model.State, Outcome, error) {
	switch ev.(type) {
	case Start:
		return model.StateHelpNeeded, Outcome{Prompt: model.PromptWelcome, Hint: model.HintRemoveKeyboard}, nil
	case Cancel:
		if state == model.StateNone || state == model.StateTerminated {
			return state, Outcome{}, ErrUnexpectedInput
		}
		return model.StateTerminated, Outcome{Prompt: model.PromptCanceled, Hint: model.HintRemoveKeyboard, Discard: true}, nil
	}

	switch state {
	case model.StateHelpNeeded:
		text, ok := ev.(Text)
		if !ok || isBlank(text.Text) {
			break
		}
		rec.HelpNeeded = text.Text
		if name := text.Sender.DisplayName(); name != "" {
			rec.DisplayName = name
		}
		if text.Sender.Username != "" {
			rec.Username = text.Sender.Username
		}
		return model.StateLocation, Outcome{Prompt: model.PromptAskLocation, Hint: model.HintShareLocation}, nil

	case model.StateLocation:
		switch ev := ev.(type) {
		case SharedLocation:
			rec.Location = model.NewLocation(ev.Latitude, ev.Longitude)
			return model.StateContacts, Outcome{Prompt: model.PromptAskContacts, Hint: model.HintShareContact}, nil
		case Skip:
			rec.Location = model.SkippedLocation()
			return model.StateContacts, Outcome{Prompt: model.PromptLocationSkipped, Hint: model.HintShareContact}, nil
		}

	case model.StateContacts:
		switch ev := ev.(type) {
		case SharedContact:
			rec.Contacts = FormatSharedContact(ev)
		case Text:
			if isBlank(ev.Text) {
				return state, Outcome{}, ErrUnexpectedInput
			}
			rec.Contacts = formatTextContact(rec, ev)
		default:
			return state, Outcome{}, ErrUnexpectedInput
		}
		if flow.ConfirmContacts {
			return model.StateContactsVerification, Outcome{Prompt: model.PromptVerifyContacts, Hint: model.HintConfirm}, nil
		}
		return model.StateTerminated, Outcome{Prompt: model.PromptCompleted, Hint: model.HintRemoveKeyboard, Deliver: true}, nil

	case model.StateContactsVerification:
		text, ok := ev.(Text)
		if !ok || isBlank(text.Text) {
			break
		}
		rec.AdditionalContacts = text.Text
		return model.StateTerminated, Outcome{Prompt: model.PromptCompleted, Hint: model.HintRemoveKeyboard, Deliver: true}, nil

	case model.StateNone, model.StateTerminated:
	}

	return state, Outcome{}, ErrUnexpectedInput
}

// FormatSharedContact renders a contact card as "First Last, phone number: +123".
func FormatSharedContact(c SharedContact) string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		name = c.Sender.DisplayName()
	}
	return fmt.Sprintf("%s, phone number: +%s", name, strings.TrimPrefix(strings.TrimSpace(c.Phone), "+"))
}

func formatTextContact(rec *model.IntakeRecord, text Text) string {
	name := text.Sender.DisplayName()
	if name == "" {
		name = rec.DisplayName
	}
	if name == "" {
		return text.Text
	}
	return fmt.Sprintf("%s: %s", name, text.Text)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
