package engine

import (
	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/retrieval"
)

// SessionSnapshot is the trace's record of the session context the turn ran
// with. JSON keys follow the debug wire format.
type SessionSnapshot struct {
	Message        string `json:"mensagem"`
	Channel        string `json:"canal,omitempty"`
	Origin         string `json:"origem,omitempty"`
	LocalTime      string `json:"horario_local,omitempty"`
	OutOfHours     *bool  `json:"fora_horario"`
	HumanRequested bool   `json:"pediu_humano"`
}

func sessionSnapshot(turn core.TurnInput) *SessionSnapshot {
	return &SessionSnapshot{
		Message:        turn.Message,
		Channel:        turn.Channel,
		Origin:         turn.Origin,
		LocalTime:      turn.LocalTime,
		OutOfHours:     turn.OutOfHours,
		HumanRequested: turn.HumanRequested,
	}
}

// AgentInfo identifies an agent in the trace, with the retrieval snapshot of
// its hop merged in (the embedded Snapshot contributes the rag_* keys).
type AgentInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"nome"`
	Role    string `json:"papel"`
	Model   string `json:"model"`
	Version int    `json:"versao"`
	Active  bool   `json:"ativo"`
	retrieval.Snapshot
}

func agentInfo(rec core.AgentRecord, snap retrieval.Snapshot) *AgentInfo {
	return &AgentInfo{
		ID:       rec.ID,
		Name:     rec.Name,
		Role:     rec.Role,
		Model:    rec.Model,
		Version:  rec.Version,
		Active:   rec.Active,
		Snapshot: snap,
	}
}

// Trace accumulates, per hop, who ran and what it decided. Payload summaries
// omit the reply text fields to avoid duplicating the final answer.
type Trace struct {
	// Context is the session snapshot, built once per turn.
	Context *SessionSnapshot `json:"context,omitempty"`
	// Orchestrator identifies the router agent before its hop runs.
	Orchestrator *AgentInfo `json:"orchestrator,omitempty"`
	// Router is the router identity with its hop's retrieval snapshot.
	Router *AgentInfo `json:"roteador,omitempty"`
	// Routing is the router's parsed decision, message stripped.
	Routing map[string]any `json:"roteamento,omitempty"`
	// Coordinator is the coordinator's parsed decision, when it ran.
	Coordinator map[string]any `json:"coordenador,omitempty"`
	// Responder identifies whoever authored the final reply.
	Responder *AgentInfo `json:"responder,omitempty"`
	// Response is the final responder's parsed decision, message stripped.
	Response map[string]any `json:"resposta,omitempty"`
	// RAG is the final responder's retrieval snapshot.
	RAG *retrieval.Snapshot `json:"rag,omitempty"`
}
