package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/model"
	"github.com/atendeplus/roteiro/retrieval"
	"github.com/atendeplus/roteiro/role"
)

// capturingModel records the last request so prompt assembly can be asserted.
type capturingModel struct {
	last model.Request
	text string
	err  error
}

func (m *capturingModel) Generate(_ context.Context, req model.Request) (*model.Response, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &model.Response{Text: m.text, Usage: &core.Usage{Input: 7, Output: 3, Total: 10}}, nil
}

func (m *capturingModel) Info() model.Info { return model.Info{Name: "capturing", Provider: "mock"} }

func TestRun_ModelNotConfigured(t *testing.T) {
	r := NewRunner(&capturingModel{})
	rec := core.AgentRecord{ID: 1, Name: "Agente Triagem", Role: "triagem"}

	out := r.Run(context.Background(), rec, core.NewTurnInput("oi"))

	assert.False(t, out.OK())
	assert.Equal(t, FailureModelNotConfigured, out.Failure)
	assert.Nil(t, out.Usage)
	assert.Equal(t, retrieval.StatusNotConfigured, out.Snapshot.Status)
}

func TestRun_InvocationFailure(t *testing.T) {
	m := &capturingModel{err: errors.New("timeout")}
	r := NewRunner(m)
	rec := core.AgentRecord{ID: 1, Name: "Agente Comercial", Role: "comercial", Model: "gpt-4o-mini"}

	out := r.Run(context.Background(), rec, core.NewTurnInput("oi"))

	assert.Equal(t, FailureInvocationFailed, out.Failure)
	assert.Error(t, out.Err)
	assert.Nil(t, out.Usage)
}

func TestRun_CompositePromptOrder(t *testing.T) {
	m := &capturingModel{text: `{"acao":"responder","mensagem":"ok"}`}
	retriever := retrieval.NewInMemoryRetriever()
	retriever.Add("precos", "Troca de oleo R$ 120", map[string]any{"source": "tabela.pdf"})
	r := NewRunner(m, func(o *Options) {
		o.Retrieval = retrieval.NewProvider(retriever)
	})

	rec := core.AgentRecord{
		ID:           3,
		Name:         "Agente Cotador",
		Role:         "cotador",
		Model:        "gpt-4o-mini",
		SystemPrompt: "Responda sobre precos.",
		Persona:      "Seja cordial.",
		Collection:   &core.CollectionRef{ID: 9, Identifier: "precos", Provider: retrieval.ProviderChromaDB},
	}
	turn := core.TurnInput{Message: "quanto custa a troca de oleo", Channel: "whatsapp"}

	out := r.Run(context.Background(), rec, turn)

	assert.True(t, out.OK())
	prompt := m.last.Instructions
	iPersona := strings.Index(prompt, HeaderPersona)
	iAgent := strings.Index(prompt, HeaderInstructions)
	iSession := strings.Index(prompt, HeaderSession)
	iRAG := strings.Index(prompt, HeaderRAG)
	assert.True(t, iPersona >= 0 && iAgent > iPersona && iSession > iAgent && iRAG > iSession,
		"sections out of order: %d %d %d %d", iPersona, iAgent, iSession, iRAG)
	assert.Contains(t, prompt, "Canal: whatsapp")
	assert.Contains(t, prompt, "Troca de oleo R$ 120")
	assert.Equal(t, "quanto custa a troca de oleo", m.last.Input)
	assert.True(t, out.Snapshot.Consulted)
	assert.Equal(t, &core.Usage{Input: 7, Output: 3, Total: 10}, out.Usage)
}

func TestRun_NoRetrievalNoRAGSection(t *testing.T) {
	m := &capturingModel{text: "texto livre"}
	r := NewRunner(m)
	rec := core.AgentRecord{ID: 2, Name: "Agente Comercial", Role: "comercial", Model: "gpt-4o-mini"}

	out := r.Run(context.Background(), rec, core.NewTurnInput("oi"))

	assert.True(t, out.OK())
	assert.NotContains(t, m.last.Instructions, HeaderRAG)
	assert.False(t, out.Snapshot.Configured)
	assert.False(t, out.Snapshot.Consulted)
	assert.Equal(t, retrieval.StatusNotConfigured, out.Snapshot.Status)
}

func TestRun_ShapeBoundByRole(t *testing.T) {
	m := &capturingModel{text: "{}"}
	r := NewRunner(m)

	r.Run(context.Background(), core.AgentRecord{Name: "x", Role: "triagem", Model: "m"}, core.NewTurnInput("oi"))
	if assert.NotNil(t, m.last.Shape) {
		assert.Equal(t, "RouteDecision", m.last.Shape.Name)
	}

	r.Run(context.Background(), core.AgentRecord{Name: "x", Role: "papel inexistente", Model: "m"}, core.NewTurnInput("oi"))
	assert.Nil(t, m.last.Shape, "unresolved roles answer in free text")
}

func TestResolveRole_NameFallback(t *testing.T) {
	assert.Equal(t, role.Quoter, ResolveRole(core.AgentRecord{Name: "Agente Cotador"}))
	assert.Equal(t, role.Triage, ResolveRole(core.AgentRecord{Role: "Triagem", Name: "qualquer"}))
	assert.Equal(t, role.Unresolved, ResolveRole(core.AgentRecord{Name: "Atendente Humano"}))
}

func TestDefaultInstructions(t *testing.T) {
	for _, r := range role.All() {
		assert.NotEmpty(t, DefaultInstructions(r), r.String())
	}
	assert.Empty(t, DefaultInstructions(role.Unresolved))
	assert.Contains(t, DefaultInstructions(role.Triage), "RouteDecision")
	assert.Contains(t, DefaultInstructions(role.Coordinator), "CoordinatorDecision")
}
