package handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"HelpBot/conversation"
	"HelpBot/locale"
	"HelpBot/model"
	"HelpBot/repo"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{Text: params.Text}, nil
}

func (f *fakeSender) last(t *testing.T) *bot.SendMessageParams {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type recordingNotifier struct {
	records []model.IntakeRecord
	err     error
}

func (r *recordingNotifier) Notify(_ context.Context, record model.IntakeRecord) error {
	r.records = append(r.records, record)
	return r.err
}

var ion = &models.User{ID: 100, FirstName: "Ion", LastName: "Popescu", Username: "ionp", LanguageCode: "en"}

func newTestHandler(t *testing.T, mode locale.Mode) (*IntakeBotHandler, *fakeSender, *recordingNotifier, *repo.MemorySessionStore) {
	t.Helper()
	bundle, err := locale.LoadEmbedded()
	require.NoError(t, err)
	renderer, err := locale.NewRenderer(bundle, []string{"en", "uk", "ro"}, mode)
	require.NoError(t, err)

	store := repo.NewMemorySessionStore()
	notifier := &recordingNotifier{}
	engine := conversation.NewEngine(store, notifier)
	return NewIntakeBotHandler(engine, renderer, zerolog.Nop()), &fakeSender{}, notifier, store
}

func textUpdate(text string) *models.Update {
	return &models.Update{Message: &models.Message{
		From: ion,
		Chat: models.Chat{ID: ion.ID},
		Text: text,
	}}
}

func locationUpdate(lat, lon float64) *models.Update {
	return &models.Update{Message: &models.Message{
		From:     ion,
		Chat:     models.Chat{ID: ion.ID},
		Location: &models.Location{Latitude: lat, Longitude: lon},
	}}
}

func contactUpdate(first, last, phone string) *models.Update {
	return &models.Update{Message: &models.Message{
		From:    ion,
		Chat:    models.Chat{ID: ion.ID},
		Contact: &models.Contact{FirstName: first, LastName: last, PhoneNumber: phone},
	}}
}

func TestHandle_FullConversation(t *testing.T) {
	h, sender, notifier, store := newTestHandler(t, locale.ModeUser)
	ctx := context.Background()

	h.Handle(ctx, sender, textUpdate("/start"))
	first := sender.last(t)
	assert.Equal(t, int64(100), first.ChatID)
	assert.Contains(t, first.Text, "What kind of help do you need")
	assert.IsType(t, &models.ReplyKeyboardRemove{}, first.ReplyMarkup)

	h.Handle(ctx, sender, textUpdate("need food"))
	kb, ok := sender.last(t).ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.Keyboard, 2)
	assert.True(t, kb.Keyboard[0][0].RequestLocation)
	assert.Equal(t, "Share location", kb.Keyboard[0][0].Text)
	assert.Equal(t, "/skip", kb.Keyboard[1][0].Text)

	h.Handle(ctx, sender, locationUpdate(45.0, 25.0))
	kb, ok = sender.last(t).ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, kb.Keyboard[0][0].RequestContact)

	h.Handle(ctx, sender, textUpdate("Jane, jane@example.com"))
	kb, ok = sender.last(t).ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "Confirm", kb.Keyboard[0][0].Text)

	h.Handle(ctx, sender, textUpdate("Confirm"))
	last := sender.last(t)
	assert.Contains(t, last.Text, "Your request number is 100.")
	assert.IsType(t, &models.ReplyKeyboardRemove{}, last.ReplyMarkup)

	assert.Len(t, sender.sent, 5, "one reply per transition")
	require.Len(t, notifier.records, 1)
	got := notifier.records[0]
	assert.Equal(t, "need food", got.HelpNeeded)
	assert.Equal(t, "Ion Popescu: Jane, jane@example.com", got.Contacts)
	assert.Equal(t, "Confirm", got.AdditionalContacts)
	assert.Zero(t, store.Len())
}

func TestHandle_SkipAndStructuredContact(t *testing.T) {
	h, sender, notifier, _ := newTestHandler(t, locale.ModeUser)
	ctx := context.Background()

	h.Handle(ctx, sender, textUpdate("/starthelp"))
	h.Handle(ctx, sender, textUpdate("need shelter"))
	h.Handle(ctx, sender, textUpdate("/skip"))
	assert.Contains(t, sender.last(t).Text, "we respect your privacy")

	update := contactUpdate("Jane", "Doe", "5551234")
	update.Message.Text = "this caption is not the contact"
	h.Handle(ctx, sender, update)
	h.Handle(ctx, sender, textUpdate("all good"))

	require.Len(t, notifier.records, 1)
	assert.Equal(t, "Jane Doe, phone number: +5551234", notifier.records[0].Contacts)
	assert.True(t, notifier.records[0].Location.Unknown)
}

func TestHandle_Cancel(t *testing.T) {
	h, sender, notifier, store := newTestHandler(t, locale.ModeUser)
	ctx := context.Background()

	h.Handle(ctx, sender, textUpdate("/start"))
	h.Handle(ctx, sender, textUpdate("need food"))
	h.Handle(ctx, sender, textUpdate("/cancel"))

	assert.Equal(t, "Interaction canceled! Stay safe.", sender.last(t).Text)
	assert.Empty(t, notifier.records)
	assert.Zero(t, store.Len())
}

func TestHandle_IgnoredUpdates(t *testing.T) {
	h, sender, _, store := newTestHandler(t, locale.ModeUser)
	ctx := context.Background()

	// no conversation yet
	h.Handle(ctx, sender, textUpdate("hello"))
	h.Handle(ctx, sender, textUpdate("/cancel"))
	h.Handle(ctx, sender, &models.Update{})
	h.Handle(ctx, sender, &models.Update{Message: &models.Message{Text: "no sender"}})
	assert.Empty(t, sender.sent)

	h.Handle(ctx, sender, textUpdate("/start"))
	h.Handle(ctx, sender, textUpdate("need food"))
	sent := len(sender.sent)

	// text and unknown commands while a location is expected
	h.Handle(ctx, sender, textUpdate("Bucharest"))
	h.Handle(ctx, sender, textUpdate("/settings"))
	assert.Len(t, sender.sent, sent)

	session, err := store.Get(ctx, ion.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateLocation, session.State)
	assert.Nil(t, session.Record.Location)
}

func TestHandle_Help(t *testing.T) {
	h, sender, _, store := newTestHandler(t, locale.ModeUser)

	h.Handle(context.Background(), sender, textUpdate("/help"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "Send /start")
	assert.Nil(t, sender.sent[0].ReplyMarkup)
	assert.Zero(t, store.Len())
}

func TestHandle_MultilingualReply(t *testing.T) {
	h, sender, _, _ := newTestHandler(t, locale.ModeAll)

	h.Handle(context.Background(), sender, textUpdate("/start"))
	text := sender.last(t).Text
	assert.Contains(t, text, "What kind of help do you need")
	assert.Contains(t, text, "Яка допомога вам потрібна")
	assert.Contains(t, text, "De ce fel de ajutor aveți nevoie")
	assert.Len(t, sender.sent, 1)
}

func TestHandle_UserLanguage(t *testing.T) {
	h, sender, _, _ := newTestHandler(t, locale.ModeUser)
	update := textUpdate("/start")
	user := *ion
	user.LanguageCode = "uk"
	update.Message.From = &user

	h.Handle(context.Background(), sender, update)
	assert.True(t, strings.HasPrefix(sender.last(t).Text, "Привіт!"))
}

func TestHandle_NotifierFailureStillCompletes(t *testing.T) {
	h, sender, notifier, store := newTestHandler(t, locale.ModeUser)
	notifier.err = errors.New("smtp: 535 authentication failed")
	ctx := context.Background()

	for _, u := range []*models.Update{
		textUpdate("/start"),
		textUpdate("need food"),
		textUpdate("/skip"),
		textUpdate("call me"),
		textUpdate("Confirm"),
	} {
		h.Handle(ctx, sender, u)
	}
	assert.Contains(t, sender.last(t).Text, "Your request number is 100.")
	assert.Zero(t, store.Len())
}

func TestHandle_SendErrorIsLogged(t *testing.T) {
	h, sender, _, store := newTestHandler(t, locale.ModeUser)
	sender.err = errors.New("Forbidden: bot was blocked by the user")

	h.Handle(context.Background(), sender, textUpdate("/start"))
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, 1, store.Len(), "the transition stands even if the reply is lost")
}

func TestCommand(t *testing.T) {
	assert.Equal(t, "/start", command("/start"))
	assert.Equal(t, "/start", command("/start@RomaniansHelpBot"))
	assert.Equal(t, "/start", command("/START deep-link-payload"))
	assert.Equal(t, "", command("need food"))
	assert.Equal(t, "", command(""))
}

func TestEventFor(t *testing.T) {
	from := senderFrom(ion)

	ev, ok := eventFor(&models.Message{Text: "/skip"}, from)
	require.True(t, ok)
	assert.Equal(t, conversation.Skip{}, ev)

	ev, ok = eventFor(&models.Message{Text: "/cancel@RomaniansHelpBot"}, from)
	require.True(t, ok)
	assert.Equal(t, conversation.Cancel{}, ev)

	_, ok = eventFor(&models.Message{Text: "/unknown"}, from)
	assert.False(t, ok)

	_, ok = eventFor(&models.Message{Text: "   "}, from)
	assert.False(t, ok)

	ev, ok = eventFor(&models.Message{
		Text:     "caption",
		Contact:  &models.Contact{FirstName: "Jane", PhoneNumber: "5551234"},
		Location: &models.Location{Latitude: 1, Longitude: 2},
	}, from)
	require.True(t, ok)
	assert.IsType(t, conversation.SharedContact{}, ev)
}
