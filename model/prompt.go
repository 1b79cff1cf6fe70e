package model

// Prompt names a reply the bot sends. The text for each prompt lives in the
// locale catalogs under the same key.
type Prompt string

const (
	PromptNone            Prompt = ""
	PromptWelcome         Prompt = "welcome"
	PromptAskLocation     Prompt = "ask_location"
	PromptAskContacts     Prompt = "ask_contacts"
	PromptLocationSkipped Prompt = "location_skipped"
	PromptVerifyContacts  Prompt = "verify_contacts"
	PromptCompleted       Prompt = "completed"
	PromptCanceled        Prompt = "canceled"
	PromptHelp            Prompt = "help"
	PromptError           Prompt = "error"

	// keyboard button labels
	PromptConfirmButton       Prompt = "confirm_button"
	PromptShareLocationButton Prompt = "share_location_button"
	PromptShareContactButton  Prompt = "share_contact_button"
)

// Hint tells the transport which input method to offer with a reply.
type Hint int

const (
	HintNone Hint = iota
	HintRemoveKeyboard
	HintShareLocation
	HintShareContact
	HintConfirm
)
