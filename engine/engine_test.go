package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendeplus/roteiro/agent"
	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/internal/testutil"
	"github.com/atendeplus/roteiro/model"
)

func newFixture() (*model.MockModel, *Engine, []core.AgentLink, core.Registry) {
	mock := model.NewMockModel("mock", "mock")
	eng := New(agent.NewRunner(mock))

	registry := core.StaticRegistry{
		1: testutil.NewRecordBuilder(1, "Agente Triagem").WithRole("triagem").WithModel("m-router").Build(),
		2: testutil.NewRecordBuilder(2, "Agente Comercial").WithRole("comercial").WithModel("m-com").Build(),
		3: testutil.NewRecordBuilder(3, "Agente Coordenador").WithRole("coordenador").WithModel("m-coord").Build(),
		4: testutil.NewRecordBuilder(4, "Agente Cotador").WithRole("cotador").WithModel("m-quote").Build(),
		5: testutil.NewRecordBuilder(5, "Agente Inativo").WithRole("guia_unidades").WithModel("m-guide").Inactive().Build(),
	}
	links := []core.AgentLink{{AgentID: 1}, {AgentID: 2}, {AgentID: 3}, {AgentID: 4}, {AgentID: 5}}
	return mock, eng, links, registry
}

func orchestrate(eng *Engine, links []core.AgentLink, registry core.Registry) Result {
	return eng.Orchestrate(context.Background(), core.NewTurnInput("quero comprar pneus"), links, registry)
}

func TestOrchestrate_RouterDirectReply(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"mensagem": "Posso ajudar diretamente."}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Posso ajudar diretamente.", res.Response)
	assert.Equal(t, "Agente Triagem", res.Trace.Responder.Name)
	assert.Equal(t, &core.Usage{Input: 10, Output: 5, Total: 15}, res.Usage)
}

func TestOrchestrate_RouterFailure(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.SetError(errors.New("boom"))

	res := orchestrate(eng, links, registry)

	assert.Equal(t, MsgAgentError, res.Response)
	assert.Equal(t, &core.Usage{}, res.Usage, "failed hop contributes zero usage")
	assert.NotNil(t, res.Trace.Router)
}

func TestOrchestrate_UnparseableRouterOutputIsVerbatimReply(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", "Ola! Como posso ajudar?")

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Ola! Como posso ajudar?", res.Response)
	assert.Empty(t, res.Trace.Routing)
}

func TestOrchestrate_NoDestinationFallsBackToRaw(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"confianca": 0.4, "motivo": "indeciso"}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, `{"confianca": 0.4, "motivo": "indeciso"}`, res.Response)
}

func TestOrchestrate_HumanHandoffCarriesReason(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "humano", "precisa_humano": true, "motivo": "cliente ofensivo", "confianca": 0.9}`)

	res := orchestrate(eng, links, registry)

	assert.Contains(t, res.Response, "cliente ofensivo")
	assert.Contains(t, res.Response, "Vou encaminhar seu atendimento para um humano.")
}

func TestOrchestrate_HandoffWithoutReasonUsesDefault(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "atendente humano", "confianca": 1}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Um atendente humano entrará em contato em breve.", res.Response)
}

func TestOrchestrate_ClarifyingQuestion(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "comercial", "pergunta_clareadora": "Qual cidade?", "confianca": 0.5, "motivo": "ambiguidade"}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Qual cidade?", res.Response)
}

func TestOrchestrate_UnknownDestination(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "jardinagem", "confianca": 0.7, "motivo": "?"}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, MsgDestinationUnknown, res.Response)
}

func TestOrchestrate_DestinationAgentMissing(t *testing.T) {
	mock, eng, links, registry := newFixture()
	// guia_unidades is linked but inactive, so the role is unbound.
	mock.AddResponse("m-router", `{"agente_destino": "guia_unidades", "confianca": 0.8, "motivo": "endereco"}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, MsgDestinationNotFound, res.Response)
}

func TestOrchestrate_SpecialistReply(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "comercial", "confianca": 0.9, "motivo": "compra"}`)
	mock.AddResponse("m-com", `{"acao": "responder", "mensagem": "Temos pneus em promocao."}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Temos pneus em promocao.", res.Response)
	assert.Equal(t, "Agente Comercial", res.Trace.Responder.Name)
	assert.Equal(t, &core.Usage{Input: 20, Output: 10, Total: 30}, res.Usage)
	assert.Equal(t, "compra", res.Trace.Routing["motivo"])
}

func TestOrchestrate_TransitionMessagePrependedAndResponderRenamed(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "comercial", "mensagem_transicao": "Vou te passar para o time comercial.", "confianca": 0.9, "motivo": "compra"}`)
	mock.AddResponse("m-com", `{"acao": "responder", "mensagem": "Temos pneus em promocao."}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Vou te passar para o time comercial.\n\nTemos pneus em promocao.", res.Response)
	assert.Equal(t, "Agente Triagem ▶ Agente Comercial", res.Trace.Responder.Name)
}

func TestOrchestrate_SpecialistEscalatesHuman(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "comercial", "confianca": 0.9, "motivo": "compra"}`)
	mock.AddResponse("m-com", `{"acao": "escalar_humano", "precisa_humano": true, "motivo_escalacao": "negociacao especial"}`)

	res := orchestrate(eng, links, registry)

	assert.Contains(t, res.Response, "negociacao especial")
}

func TestOrchestrate_SpecialistContractLeakageCleaned(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "comercial", "confianca": 0.9, "motivo": "compra"}`)
	mock.AddResponse("m-com", `AgentReply(message='Vou verificar')`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Vou verificar", res.Response)
}

func TestOrchestrate_CoordinatorAnswersItself(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "coordenador", "confianca": 0.6, "motivo": "ambiguidade"}`)
	mock.AddResponse("m-coord", `{"acao": "perguntar", "mensagem": "Pode detalhar o pedido?", "motivo": "faltam dados"}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Pode detalhar o pedido?", res.Response)
	assert.Equal(t, "Agente Coordenador", res.Trace.Responder.Name)
	assert.Equal(t, "faltam dados", res.Trace.Coordinator["motivo"])
}

func TestOrchestrate_CoordinatorRedirectAttributesSpecialist(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "coordenador", "confianca": 0.6, "motivo": "ambiguidade"}`)
	mock.AddResponse("m-coord", `{"acao": "redirecionar", "agente_destino": "cotador", "motivo": "pedido de preco"}`)
	mock.AddResponse("m-quote", `{"acao": "responder", "mensagem": "O alinhamento custa R$ 90."}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "O alinhamento custa R$ 90.", res.Response)
	assert.Equal(t, "Agente Cotador", res.Trace.Responder.Name)
	assert.Equal(t, &core.Usage{Input: 30, Output: 15, Total: 45}, res.Usage)
}

func TestOrchestrate_CoordinatorMessageWinsOverRedirect(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "coordenador", "confianca": 0.6, "motivo": "ambiguidade"}`)
	mock.AddResponse("m-coord", `{"acao": "redirecionar", "agente_destino": "cotador", "mensagem": "Encaminhando ao cotador, um momento.", "motivo": "pedido de preco"}`)
	mock.AddResponse("m-quote", `{"acao": "responder", "mensagem": "O alinhamento custa R$ 90."}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "Encaminhando ao cotador, um momento.", res.Response)
	assert.Equal(t, "Agente Coordenador", res.Trace.Responder.Name)
	assert.Equal(t, &core.Usage{Input: 20, Output: 10, Total: 30}, res.Usage, "specialist must not be invoked")
}

func TestOrchestrate_CoordinatorEscalatesHuman(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "coordenador", "confianca": 0.6, "motivo": "caso complexo"}`)
	mock.AddResponse("m-coord", `{"acao": "escalar_humano", "agente_destino": "humano", "precisa_resumo": true, "motivo": "reclamacao grave"}`)

	res := orchestrate(eng, links, registry)

	assert.Contains(t, res.Response, "reclamacao grave")
}

func TestOrchestrate_CoordinatorMissing(t *testing.T) {
	mock, eng, _, registry := newFixture()
	mock.AddResponse("m-router", `{"agente_destino": "coordenador", "confianca": 0.6, "motivo": "ambiguidade"}`)
	links := []core.AgentLink{{AgentID: 1}, {AgentID: 2}}

	res := orchestrate(eng, links, registry)

	assert.Equal(t, MsgCoordinatorNotFound, res.Response)
}

func TestOrchestrate_RouterMissing(t *testing.T) {
	_, eng, _, registry := newFixture()

	res := orchestrate(eng, []core.AgentLink{{AgentID: 2}}, registry)

	assert.Equal(t, MsgRouterNotFound, res.Response)
	assert.Nil(t, res.Usage)
}

func TestOrchestrate_RouterModelNotConfigured(t *testing.T) {
	_, eng, links, _ := newFixture()
	registry := core.StaticRegistry{
		1: {ID: 1, Name: "Agente Triagem", Role: "triagem", Active: true},
	}

	res := eng.Orchestrate(context.Background(), core.NewTurnInput("oi"), links, registry)

	assert.Equal(t, MsgModelNotConfigured, res.Response)
	assert.Nil(t, res.Usage)
	assert.Nil(t, res.Trace.Context, "early exit leaves the trace empty")
}

func TestOrchestrate_FirstAgentPerRoleWins(t *testing.T) {
	mock, eng, _, _ := newFixture()
	registry := core.StaticRegistry{
		1: {ID: 1, Name: "Agente Triagem", Role: "triagem", Model: "m-router", Active: true},
		2: {ID: 2, Name: "Comercial A", Role: "comercial", Model: "m-com", Active: true},
		6: {ID: 6, Name: "Comercial B", Role: "comercial", Model: "m-com-b", Active: true},
	}
	links := []core.AgentLink{{AgentID: 1}, {AgentID: 2}, {AgentID: 6}}
	mock.AddResponse("m-router", `{"agente_destino": "comercial", "confianca": 0.9, "motivo": "compra"}`)
	mock.AddResponse("m-com", `{"acao": "responder", "mensagem": "A"}`)
	mock.AddResponse("m-com-b", `{"acao": "responder", "mensagem": "B"}`)

	res := orchestrate(eng, links, registry)

	assert.Equal(t, "A", res.Response)
	assert.Equal(t, "Comercial A", res.Trace.Responder.Name)
}

func TestOrchestrate_TraceRecordsRetrievalPerHop(t *testing.T) {
	mock, eng, links, registry := newFixture()
	mock.AddResponse("m-router", `{"mensagem": "ok"}`)

	res := orchestrate(eng, links, registry)

	if assert.NotNil(t, res.Trace.RAG) {
		assert.False(t, res.Trace.RAG.Configured)
		assert.Equal(t, "nao configurado", res.Trace.RAG.Status)
	}
	assert.NotNil(t, res.Trace.Context)
	assert.Equal(t, "quero comprar pneus", res.Trace.Context.Message)
}
