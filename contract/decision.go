package contract

import (
	"fmt"
	"strings"

	"github.com/atendeplus/roteiro/role"
)

// DefaultHandoffMessage is the user-facing handoff text used when an
// escalating decision carries no reason.
const DefaultHandoffMessage = "Um atendente humano entrará em contato em breve."

// Decision is a tolerant read-only view over a parsed model payload. The
// orchestrator reads decisions through this view instead of the typed shapes
// so that partially malformed output downgrades to best-effort handling
// rather than failing the turn. A nil Decision means the raw text could not
// be parsed at all.
type Decision map[string]any

// stringField returns the trimmed string form of a field, or "" when the
// field is absent or blank. Non-string scalars are stringified, matching the
// lenient reading the deployed prompts rely on.
func (d Decision) stringField(key string) string {
	if d == nil {
		return ""
	}
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return strings.TrimSpace(s)
}

// HasMessage reports whether the decision carries a direct reply in its
// mensagem field.
func (d Decision) HasMessage() bool { return d.stringField("mensagem") != "" }

// Message returns the reply text of the decision: mensagem, falling back to
// message, falling back to the clarifying question.
func (d Decision) Message() string {
	if m := d.stringField("mensagem"); m != "" {
		return m
	}
	if m := d.stringField("message"); m != "" {
		return m
	}
	return d.ClarifyingQuestion()
}

// Destination returns the agente_destino field.
func (d Decision) Destination() string { return d.stringField("agente_destino") }

// ClarifyingQuestion returns the pergunta_clareadora field.
func (d Decision) ClarifyingQuestion() string { return d.stringField("pergunta_clareadora") }

// TransitionMessage returns the router-authored text prepended to a delegated
// reply to smooth the hand-off.
func (d Decision) TransitionMessage() string { return d.stringField("mensagem_transicao") }

// Action returns the acao field.
func (d Decision) Action() string { return d.stringField("acao") }

// NeedsHuman reports whether the decision requests human takeover: an
// explicit precisa_humano, an escalation action, or a destination naming the
// human sentinel. The destination is passed in because router and reply
// shapes expose it differently.
func (d Decision) NeedsHuman(destination string) bool {
	if d == nil {
		return false
	}
	if v, ok := d["precisa_humano"].(bool); ok && v {
		return true
	}
	if d.Action() == string(ActionEscalate) {
		return true
	}
	return role.IsHumanDestination(destination)
}

// HandoffMessage composes the user-facing handoff text from
// motivo_escalacao, falling back to motivo, falling back to the default.
func (d Decision) HandoffMessage() string {
	reason := d.stringField("motivo_escalacao")
	if reason == "" {
		reason = d.stringField("motivo")
	}
	if reason == "" {
		return DefaultHandoffMessage
	}
	return "Vou encaminhar seu atendimento para um humano. Motivo: " + reason
}

// Summarize returns a copy of the payload without the reply text fields, for
// debug traces that record the final answer elsewhere.
func (d Decision) Summarize() map[string]any {
	if len(d) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(d))
	for k, v := range d {
		if k == "mensagem" || k == "message" {
			continue
		}
		out[k] = v
	}
	return out
}
