package core

import (
	"fmt"
	"sort"
	"strings"
)

// TurnInput carries one end-user message plus the session context it arrived
// with. It is created fresh per inbound message and treated as immutable for
// the duration of one orchestration call.
type TurnInput struct {
	// Message is the inbound end-user message. Required, non-empty.
	Message string
	// Channel names the conversation channel (whatsapp, webchat, playground, ...).
	Channel string
	// Origin names where the turn entered the system.
	Origin string
	// LocalTime is the caller-formatted local time of the end user.
	LocalTime string
	// OutOfHours is a tri-state flag: nil means unknown.
	OutOfHours *bool
	// HumanRequested is true when the end user explicitly asked for a person.
	HumanRequested bool
	// MentionedNames lists person names detected in the message.
	MentionedNames []string
	// ConversationID, InboxID and ContactID are optional upstream identifiers
	// (zero means absent).
	ConversationID int64
	InboxID        int64
	ContactID      int64
	// Metadata carries free-form caller data rendered into the session context.
	Metadata map[string]any
}

// NewTurnInput builds a TurnInput for a single message with no further
// session context.
func NewTurnInput(message string) TurnInput {
	return TurnInput{Message: message}
}

// Validate reports whether the turn is usable. A blank message is a caller
// programming error, not a degradable model condition.
func (t TurnInput) Validate() error {
	if strings.TrimSpace(t.Message) == "" {
		return fmt.Errorf("turn input: message must be non-empty")
	}
	return nil
}

// RenderContext formats the session context as the deterministic block all
// agent prompts share. Absent optional identifiers are omitted; tri-state and
// scalar fields render as "-" when unknown.
func (t TurnInput) RenderContext() string {
	outOfHours := "-"
	if t.OutOfHours != nil {
		if *t.OutOfHours {
			outOfHours = "sim"
		} else {
			outOfHours = "nao"
		}
	}
	humanRequested := "nao"
	if t.HumanRequested {
		humanRequested = "sim"
	}

	lines := []string{
		"Mensagem do cliente: " + t.Message,
		"Canal: " + orDash(t.Channel),
		"Origem: " + orDash(t.Origin),
		"Horario local: " + orDash(t.LocalTime),
		"Fora do horario: " + outOfHours,
		"Pediu humano: " + humanRequested,
	}
	if len(t.MentionedNames) > 0 {
		lines = append(lines, "Nomes citados: "+strings.Join(t.MentionedNames, ", "))
	}
	if t.ConversationID != 0 {
		lines = append(lines, fmt.Sprintf("Conversation ID: %d", t.ConversationID))
	}
	if t.InboxID != 0 {
		lines = append(lines, fmt.Sprintf("Inbox ID: %d", t.InboxID))
	}
	if t.ContactID != 0 {
		lines = append(lines, fmt.Sprintf("Contact ID: %d", t.ContactID))
	}
	if len(t.Metadata) > 0 {
		lines = append(lines, "Metadados: "+formatMetadata(t.Metadata))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatMetadata renders a metadata map as a stable, key-sorted k=v list.
func formatMetadata(metadata map[string]any) string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, metadata[k]))
	}
	return strings.Join(pairs, ", ")
}
