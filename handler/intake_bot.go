package handler

import (
	"context"
	"errors"

	"HelpBot/conversation"
	"HelpBot/locale"
	"HelpBot/model"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// MessageSender is the part of *bot.Bot the handler needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type IntakeBotHandler struct {
	Engine   *conversation.Engine
	Renderer *locale.Renderer
	logger   zerolog.Logger
}

func NewIntakeBotHandler(
	engine *conversation.Engine,
	renderer *locale.Renderer,
	logger zerolog.Logger,
) *IntakeBotHandler {
	return &IntakeBotHandler{
		Engine:   engine,
		Renderer: renderer,
		logger:   logger,
	}
}

// Handler is registered as the bot's default handler.
func (h *IntakeBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.Handle(ctx, b, update)
}

// Handle turns one Telegram update into at most one engine call and one reply.
func (h *IntakeBotHandler) Handle(ctx context.Context, sender MessageSender, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	from := senderFrom(msg.From)
	logger := h.logger.With().Int64("user_id", from.ID).Logger()

	logger.Debug().Str("username", from.Username).Str("text", msg.Text).Msg("update received")

	ev, ok := eventFor(msg, from)
	if !ok {
		if command(msg.Text) == helpCommand {
			h.send(ctx, sender, logger, chatID, h.Renderer.Render(model.PromptHelp, from.LanguageCode), nil)
		}
		return
	}

	reply, err := h.Engine.Handle(ctx, from.ID, ev)
	switch {
	case errors.Is(err, conversation.ErrUnexpectedInput), errors.Is(err, conversation.ErrNoSession):
		logger.Debug().Err(err).Str("event", ev.Name()).Msg("update ignored")
		return
	case err != nil:
		logger.Error().Err(err).Str("event", ev.Name()).Msg("error handling update")
		h.send(ctx, sender, logger, chatID, h.Renderer.Render(model.PromptError, from.LanguageCode), nil)
		return
	}

	var text string
	if reply.Prompt == model.PromptCompleted {
		text = h.Renderer.Render(reply.Prompt, from.LanguageCode, reply.Reference)
	} else {
		text = h.Renderer.Render(reply.Prompt, from.LanguageCode)
	}
	h.send(ctx, sender, logger, chatID, text, h.keyboard(reply.Hint, from.LanguageCode))
}

func (h *IntakeBotHandler) send(ctx context.Context, sender MessageSender, logger zerolog.Logger, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	}
	if _, err := sender.SendMessage(ctx, params); err != nil {
		logger.Error().Err(err).Msg("error sending message")
	}
}

// keyboard maps an input hint onto a reply keyboard.
func (h *IntakeBotHandler) keyboard(hint model.Hint, lang string) models.ReplyMarkup {
	switch hint {
	case model.HintShareLocation:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: h.Renderer.Label(model.PromptShareLocationButton, lang), RequestLocation: true}},
				{{Text: skipCommand}},
			},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	case model.HintShareContact:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: h.Renderer.Label(model.PromptShareContactButton, lang), RequestContact: true}},
			},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	case model.HintConfirm:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: h.Renderer.Label(model.PromptConfirmButton, lang)}},
			},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	case model.HintRemoveKeyboard:
		return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	default:
		return nil
	}
}

func senderFrom(u *models.User) conversation.Sender {
	return conversation.Sender{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
	}
}
