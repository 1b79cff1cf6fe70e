package conversation

import "strings"

// Sender is the inbound sender metadata the transport attaches to events.
type Sender struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

func (s Sender) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Event is one well-typed inbound message for the engine.
type Event interface {
	Name() string
}

// Start is the /start command.
type Start struct {
	Sender Sender
}

// Text is a plain text message that is not a command.
type Text struct {
	Sender Sender
	Text   string
}

type SharedLocation struct {
	Latitude  float64
	Longitude float64
}

// SharedContact is a structured contact card. Text carries a caption when the
// transport saw one; the card always wins over it.
type SharedContact struct {
	Sender    Sender
	FirstName string
	LastName  string
	Phone     string
	Text      string
}

type Skip struct{}

type Cancel struct{}

func (Start) Name() string          { return "start" }
func (Text) Name() string           { return "text" }
func (SharedLocation) Name() string { return "location" }
func (SharedContact) Name() string  { return "contact" }
func (Skip) Name() string           { return "skip" }
func (Cancel) Name() string         { return "cancel" }
