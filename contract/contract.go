package contract

import (
	"encoding/json"
	"strings"

	"github.com/atendeplus/roteiro/internal/util"
	"github.com/atendeplus/roteiro/role"
)

// Action enumerates what a replying agent intends to do with its turn.
type Action string

const (
	ActionRespond  Action = "responder"
	ActionAsk      Action = "perguntar"
	ActionRedirect Action = "redirecionar"
	ActionEscalate Action = "escalar_humano"
)

// Valid reports whether the action is one of the closed set.
func (a Action) Valid() bool {
	switch a {
	case ActionRespond, ActionAsk, ActionRedirect, ActionEscalate:
		return true
	}
	return false
}

func (a Action) String() string { return string(a) }

// validDestination reports whether a destination value names a routable role
// or the human sentinel. Triage never routes to itself.
func validDestination(dest string) bool {
	switch dest {
	case role.Commercial.String(), role.UnitGuide.String(), role.Quoter.String(),
		role.TechnicalConsultant.String(), role.Summary.String(), role.Coordinator.String(),
		role.DestinationHuman:
		return true
	}
	return false
}

// RouteDecision is the triage agent's verdict for an inbound message: where
// the turn should go next, with how much confidence, and why.
type RouteDecision struct {
	Destination        string   `json:"agente_destino" enum:"comercial,guia_unidades,cotador,consultor_tecnico,resumo,coordenador,humano"`
	Confidence         float64  `json:"confianca"`
	ClarifyingQuestion string   `json:"pergunta_clareadora,omitempty"`
	NeedsHuman         bool     `json:"precisa_humano"`
	Reason             string   `json:"motivo"`
	Intent             string   `json:"intencao,omitempty"`
	Tags               []string `json:"tags,omitempty"`
}

func (d *RouteDecision) Validate() error {
	if strings.TrimSpace(d.Destination) == "" {
		return &util.ValidationError{Field: "agente_destino", Value: d.Destination, Message: "agente_destino e obrigatorio."}
	}
	if !validDestination(d.Destination) {
		return &util.ValidationError{Field: "agente_destino", Value: d.Destination, Message: "agente_destino invalido."}
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return &util.ValidationError{Field: "confianca", Value: d.Confidence, Message: "confianca deve estar entre 0 e 1."}
	}
	if strings.TrimSpace(d.Reason) == "" {
		return &util.ValidationError{Field: "motivo", Value: d.Reason, Message: "motivo e obrigatorio."}
	}
	return nil
}

// AgentReply is the shape every specialist role answers with.
type AgentReply struct {
	Action           Action   `json:"acao" enum:"responder,perguntar,redirecionar,escalar_humano"`
	Message          string   `json:"mensagem"`
	NeedsHuman       bool     `json:"precisa_humano"`
	EscalationReason string   `json:"motivo_escalacao,omitempty"`
	MissingData      []string `json:"dados_faltantes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

func (r *AgentReply) Validate() error {
	if !r.Action.Valid() {
		return &util.ValidationError{Field: "acao", Value: string(r.Action), Message: "acao invalida."}
	}
	if strings.TrimSpace(r.Message) == "" && r.Action != ActionRedirect {
		return &util.ValidationError{Field: "mensagem", Value: r.Message, Message: "mensagem e obrigatoria."}
	}
	if r.Action == ActionEscalate && !r.NeedsHuman {
		return &util.ValidationError{Field: "precisa_humano", Value: r.NeedsHuman, Message: "precisa_humano deve ser true quando acao=escalar_humano."}
	}
	if r.NeedsHuman && strings.TrimSpace(r.EscalationReason) == "" {
		return &util.ValidationError{Field: "motivo_escalacao", Value: r.EscalationReason, Message: "Informe motivo_escalacao ao escalar para humano."}
	}
	return nil
}

// HandoffSummary condenses the conversation for a human taking over. It is
// an internal artifact and is never sent to the end user as-is.
type HandoffSummary struct {
	Summary             string   `json:"resumo"`
	RelevantData        []string `json:"dados_relevantes,omitempty"`
	PendingItems        []string `json:"pendencias,omitempty"`
	Sentiment           string   `json:"sentimento,omitempty"`
	SuggestedNextAction string   `json:"sugestao_proxima_acao,omitempty"`
}

func (s *HandoffSummary) Validate() error {
	if strings.TrimSpace(s.Summary) == "" {
		return &util.ValidationError{Field: "resumo", Value: s.Summary, Message: "resumo e obrigatorio."}
	}
	return nil
}

// CoordinatorDecision is produced when the coordinator adjudicates an
// ambiguous turn: answer directly, ask, re-route, or hand off to a human.
type CoordinatorDecision struct {
	Action       Action   `json:"acao" enum:"responder,perguntar,redirecionar,escalar_humano"`
	Message      string   `json:"mensagem,omitempty"`
	Destination  string   `json:"agente_destino,omitempty" enum:"comercial,guia_unidades,cotador,consultor_tecnico,resumo,coordenador,humano"`
	NeedsSummary bool     `json:"precisa_resumo"`
	Reason       string   `json:"motivo"`
	Tags         []string `json:"tags,omitempty"`
}

func (d *CoordinatorDecision) Validate() error {
	if !d.Action.Valid() {
		return &util.ValidationError{Field: "acao", Value: string(d.Action), Message: "acao invalida."}
	}
	if d.Destination != "" && !validDestination(d.Destination) {
		return &util.ValidationError{Field: "agente_destino", Value: d.Destination, Message: "agente_destino invalido."}
	}
	if strings.TrimSpace(d.Reason) == "" {
		return &util.ValidationError{Field: "motivo", Value: d.Reason, Message: "motivo e obrigatorio."}
	}
	if d.Action == ActionRespond || d.Action == ActionAsk {
		if strings.TrimSpace(d.Message) == "" {
			return &util.ValidationError{Field: "mensagem", Value: d.Message, Message: "mensagem e obrigatoria quando acao exige resposta."}
		}
	}
	if d.Action == ActionRedirect && strings.TrimSpace(d.Destination) == "" {
		return &util.ValidationError{Field: "agente_destino", Value: d.Destination, Message: "agente_destino e obrigatorio quando acao=redirecionar."}
	}
	if d.Action == ActionEscalate && d.Destination != role.DestinationHuman {
		return &util.ValidationError{Field: "agente_destino", Value: d.Destination, Message: "agente_destino deve ser humano quando acao=escalar_humano."}
	}
	return nil
}

// ParseRouteDecision decodes and validates a RouteDecision from raw JSON.
func ParseRouteDecision(data []byte) (*RouteDecision, error) {
	var d RouteDecision
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseAgentReply decodes and validates an AgentReply from raw JSON. A
// missing action defaults to responder.
func ParseAgentReply(data []byte) (*AgentReply, error) {
	var r AgentReply
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Action == "" {
		r.Action = ActionRespond
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// ParseHandoffSummary decodes and validates a HandoffSummary from raw JSON.
func ParseHandoffSummary(data []byte) (*HandoffSummary, error) {
	var s HandoffSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseCoordinatorDecision decodes and validates a CoordinatorDecision from
// raw JSON.
func ParseCoordinatorDecision(data []byte) (*CoordinatorDecision, error) {
	var d CoordinatorDecision
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
