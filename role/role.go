// Package role defines the closed role enumeration agents are typed with and
// the tolerant resolver that maps free-text labels onto it. Labels arrive as
// operator-entered text (role column or agent name) and are matched
// case-insensitively, ignoring diacritics and underscore/space differences.
package role

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role identifies an agent's function. The wire values are the role labels
// used in deployed agent records and router destinations.
type Role string

const (
	// Unresolved is the zero value: no role could be bound to the label.
	Unresolved Role = ""
	// Triage routes inbound turns; it is the engine's router.
	Triage Role = "triagem"
	// Commercial drives sales conversations.
	Commercial Role = "comercial"
	// UnitGuide answers about stores, addresses and contacts.
	UnitGuide Role = "guia_unidades"
	// Quoter answers about prices and services.
	Quoter Role = "cotador"
	// TechnicalConsultant answers technical product questions.
	TechnicalConsultant Role = "consultor_tecnico"
	// Summary produces the internal handoff summary before a human takes over.
	Summary Role = "resumo"
	// Coordinator adjudicates ambiguous routes: it may respond, ask, redirect
	// or escalate.
	Coordinator Role = "coordenador"
)

// DestinationHuman is the routing sentinel for human takeover. It is a valid
// router destination but never a bindable Role.
const DestinationHuman = "humano"

// All returns the bindable roles in their canonical display order.
func All() []Role {
	return []Role{Triage, Commercial, UnitGuide, Quoter, TechnicalConsultant, Summary, Coordinator}
}

// String returns the wire value of the role.
func (r Role) String() string { return string(r) }

var displayNames = map[Role]string{
	Triage:              "Agente Triagem",
	Commercial:          "Agente Comercial",
	UnitGuide:           "Agente Guia de Unidades",
	Quoter:              "Agente Cotador",
	TechnicalConsultant: "Agente Consultor Técnico",
	Summary:             "Agente Resumo",
	Coordinator:         "Agente Coordenador",
}

var descriptions = map[Role]string{
	Triage:              "Roteamento inicial e classificacao do atendimento.",
	Commercial:          "Conducao comercial com foco em fechamento de vendas.",
	UnitGuide:           "Informacoes sobre lojas, enderecos e contatos.",
	Quoter:              "Consulta de precos e servicos das lojas.",
	TechnicalConsultant: "Orientacao tecnica sobre produtos e servicos.",
	Summary:             "Resumo do atendimento para o humano assumir.",
	Coordinator:         "Decisoes e escalonamento em casos complexos.",
}

// DisplayName returns the human-facing agent name for a role, or the raw wire
// value for roles without one.
func (r Role) DisplayName() string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	return string(r)
}

// Description returns the one-line operator description of the role.
func (r Role) Description() string { return descriptions[r] }

// Resolve maps a free-text role or agent name to the closed enumeration.
// Returns Unresolved (not an error) when nothing matches, and explicitly
// returns Unresolved for anything naming a human attendant, since human
// takeover is a routing sentinel rather than a bindable role.
func Resolve(label string) Role {
	normalized := normalizeLabel(label)
	if normalized == "" {
		return Unresolved
	}
	if strings.Contains(normalized, "humano") || strings.Contains(normalized, "atendente") {
		return Unresolved
	}

	underscored := strings.ReplaceAll(normalized, " ", "_")
	for _, r := range All() {
		if normalized == string(r) || underscored == string(r) {
			return r
		}
	}

	switch {
	case strings.Contains(normalized, "triagem"):
		return Triage
	case strings.Contains(normalized, "comercial"), strings.Contains(normalized, "venda"):
		return Commercial
	case strings.Contains(normalized, "guia"), strings.Contains(normalized, "unidade"), strings.Contains(normalized, "loja"):
		return UnitGuide
	case strings.Contains(normalized, "cotador"), strings.Contains(normalized, "cotacao"), strings.Contains(normalized, "preco"):
		return Quoter
	case strings.Contains(normalized, "consultor"), strings.Contains(normalized, "tecnico"):
		return TechnicalConsultant
	case strings.Contains(normalized, "resumo"):
		return Summary
	case strings.Contains(normalized, "coordenador"), strings.Contains(normalized, "supervisor"):
		return Coordinator
	}
	return Unresolved
}

// IsHumanDestination reports whether a router destination names human
// takeover. Destinations are matched leniently, any label containing the
// sentinel counts.
func IsHumanDestination(destination string) bool {
	return strings.Contains(strings.ToLower(destination), DestinationHuman)
}

// normalizeLabel folds a label for matching: Unicode compatibility
// decomposition with combining marks stripped, ASCII-only, lower case,
// underscores treated as spaces.
func normalizeLabel(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(folder, text)
	if err != nil {
		folded = text
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	lowered := strings.ToLower(b.String())
	return strings.TrimSpace(strings.ReplaceAll(lowered, "_", " "))
}
