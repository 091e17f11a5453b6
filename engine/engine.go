package engine

import (
	"context"
	"strings"

	"github.com/atendeplus/roteiro/agent"
	"github.com/atendeplus/roteiro/contract"
	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/logging"
	"github.com/atendeplus/roteiro/repair"
	"github.com/atendeplus/roteiro/retrieval"
	"github.com/atendeplus/roteiro/role"
)

// Fixed user-facing messages for the terminal degradation states. These are
// returned instead of raising: malformed model output and missing
// configuration are expected conditions, not exceptions.
const (
	MsgNoResponse          = "Sem resposta."
	MsgAgentError          = "Erro ao gerar resposta com o agente."
	MsgDestinationNotFound = "Agente destino nao encontrado."
	MsgCoordinatorNotFound = "Agente coordenador nao encontrado."
	MsgDestinationUnknown  = "Agente destino nao reconhecido."
	MsgModelNotConfigured  = "Modelo do agente nao configurado."
	MsgRouterNotFound      = "Agente de triagem nao encontrado."
)

// Result is the outcome of one orchestration call.
type Result struct {
	// Response is the single outbound reply text.
	Response string `json:"response"`
	// Trace records every hop for inspection.
	Trace Trace `json:"debug"`
	// Usage aggregates token counts over every executed hop. Nil only when
	// the pipeline exited before the router hop ran.
	Usage *core.Usage `json:"usage,omitempty"`
}

// Options configures an Engine.
type Options struct {
	// Logger receives routing diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Engine is the routing/coordination state machine. It is stateless between
// calls: the role map is rebuilt per call from the caller-supplied registry
// snapshot, and no connections or caches are held.
type Engine struct {
	runner *agent.Runner
	logger logging.Logger
}

// New creates an Engine over a single-agent runner.
func New(runner *agent.Runner, optFns ...func(o *Options)) *Engine {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{runner: runner, logger: opts.Logger}
}

// Orchestrate routes one turn through the agent society and assembles the
// reply, trace and aggregated usage. links are the active bot's role-linked
// agents in caller order; registry resolves their records.
func (e *Engine) Orchestrate(ctx context.Context, turn core.TurnInput, links []core.AgentLink, registry core.Registry) Result {
	agentsByRole := mapAgentsByRole(links, registry)

	router, ok := agentsByRole[role.Triage]
	if !ok {
		e.logger.Warn("no triage agent bound")
		return Result{Response: MsgRouterNotFound, Trace: Trace{Context: sessionSnapshot(turn)}}
	}
	if strings.TrimSpace(router.Model) == "" {
		return Result{Response: MsgModelNotConfigured}
	}

	trace := Trace{
		Context:      sessionSnapshot(turn),
		Orchestrator: agentInfo(router, retrieval.EmptySnapshot(router)),
	}

	out := e.runner.Run(ctx, router, turn)
	usage := &core.Usage{}
	usage.Add(out.Usage)
	trace.Router = agentInfo(router, out.Snapshot)

	// finish closes the turn with the router as responder.
	finish := func(text string, payload contract.Decision) Result {
		snap := out.Snapshot
		trace.Responder = trace.Router
		trace.Response = payload.Summarize()
		trace.RAG = &snap
		return Result{Response: text, Trace: trace, Usage: usage}
	}

	if !out.OK() {
		return finish(MsgAgentError, nil)
	}

	payload := contract.Decision(repair.ExtractJSON(out.Raw))
	trace.Routing = payload.Summarize()
	if payload == nil {
		return finish(orNoResponse(out.Raw), nil)
	}
	if payload.HasMessage() {
		return finish(orNoResponse(payload.Message()), payload)
	}

	destination := payload.Destination()
	if destination == "" {
		return finish(orNoResponse(out.Raw), payload)
	}
	if payload.NeedsHuman(destination) {
		e.logger.Info("human handoff requested", "destination", destination)
		return finish(payload.HandoffMessage(), payload)
	}
	if q := payload.ClarifyingQuestion(); q != "" {
		return finish(q, payload)
	}

	transition := payload.TransitionMessage()
	destRole := role.Resolve(destination)
	e.logger.Info("route decision", "destination", destination, "role", destRole.String())

	switch destRole {
	case role.Unresolved:
		return finish(MsgDestinationUnknown, payload)

	case role.Coordinator:
		coordinator, ok := agentsByRole[role.Coordinator]
		if !ok {
			return finish(MsgCoordinatorNotFound, payload)
		}
		flow := e.runCoordinator(ctx, coordinator, agentsByRole, turn)
		usage.Add(flow.usage)
		snap := flow.snapshot
		trace.Coordinator = flow.coordinatorPayload.Summarize()
		trace.Responder = agentInfo(flow.responder, flow.snapshot)
		trace.Response = flow.responderPayload.Summarize()
		trace.RAG = &snap
		text := flow.text
		if transition != "" {
			text = transition + "\n\n" + text
			annotateTransition(trace.Responder, router.Name)
		}
		return Result{Response: text, Trace: trace, Usage: usage}

	default:
		destAgent, ok := agentsByRole[destRole]
		if !ok {
			return finish(MsgDestinationNotFound, payload)
		}
		r := e.runReply(ctx, destAgent, turn)
		usage.Add(r.usage)
		snap := r.snapshot
		trace.Responder = agentInfo(destAgent, r.snapshot)
		trace.Response = r.payload.Summarize()
		trace.RAG = &snap
		text := r.text
		if transition != "" {
			text = transition + "\n\n" + text
			annotateTransition(trace.Responder, router.Name)
		}
		return Result{Response: text, Trace: trace, Usage: usage}
	}
}

// reply is one specialist hop reduced to its reply text.
type reply struct {
	text     string
	payload  contract.Decision
	snapshot retrieval.Snapshot
	usage    *core.Usage
}

// runReply invokes an agent and applies the reply precedence: failed call,
// unparseable output, human need, direct message, raw fallback.
func (e *Engine) runReply(ctx context.Context, rec core.AgentRecord, turn core.TurnInput) reply {
	out := e.runner.Run(ctx, rec, turn)
	r := reply{snapshot: out.Snapshot, usage: out.Usage}
	if !out.OK() {
		r.text = MsgAgentError
		return r
	}
	payload := contract.Decision(repair.ExtractJSON(out.Raw))
	if payload == nil {
		r.text = orNoResponse(repair.CleanReplyText(out.Raw))
		return r
	}
	r.payload = payload
	if payload.NeedsHuman(payload.Destination()) {
		r.text = payload.HandoffMessage()
		return r
	}
	if payload.HasMessage() {
		r.text = orNoResponse(payload.Message())
		return r
	}
	r.text = orNoResponse(repair.CleanReplyText(out.Raw))
	return r
}

// coordinatorFlow is the outcome of the coordinator sub-flow, including the
// agent that ended up authoring the reply.
type coordinatorFlow struct {
	text               string
	coordinatorPayload contract.Decision
	responder          core.AgentRecord
	responderPayload   contract.Decision
	snapshot           retrieval.Snapshot
	usage              *core.Usage
}

// runCoordinator invokes the coordinator and follows its decision. A
// message-less redirect to a bound agent delegates the reply and attributes
// it to that agent; everything else is answered by the coordinator itself.
func (e *Engine) runCoordinator(ctx context.Context, coordinator core.AgentRecord, agentsByRole map[role.Role]core.AgentRecord, turn core.TurnInput) coordinatorFlow {
	out := e.runner.Run(ctx, coordinator, turn)
	usage := &core.Usage{}
	usage.Add(out.Usage)
	flow := coordinatorFlow{responder: coordinator, snapshot: out.Snapshot, usage: usage}

	if !out.OK() {
		flow.text = MsgAgentError
		return flow
	}
	payload := contract.Decision(repair.ExtractJSON(out.Raw))
	if payload == nil {
		flow.text = orNoResponse(repair.CleanReplyText(out.Raw))
		return flow
	}
	flow.coordinatorPayload = payload

	if payload.NeedsHuman(payload.Destination()) {
		flow.text = payload.HandoffMessage()
		flow.responderPayload = payload
		return flow
	}
	// A coordinator that wrote a message answers itself, even when it also
	// named a redirect destination.
	if payload.HasMessage() {
		flow.text = orNoResponse(payload.Message())
		flow.responderPayload = payload
		return flow
	}
	if payload.Action() == string(contract.ActionRedirect) {
		if destRole := role.Resolve(payload.Destination()); destRole != role.Unresolved {
			if rec, ok := agentsByRole[destRole]; ok {
				e.logger.Info("coordinator redirect", "role", destRole.String())
				r := e.runReply(ctx, rec, turn)
				usage.Add(r.usage)
				flow.text = r.text
				flow.responder = rec
				flow.responderPayload = r.payload
				flow.snapshot = r.snapshot
				return flow
			}
		}
	}
	flow.text = orNoResponse(repair.CleanReplyText(out.Raw))
	return flow
}

// mapAgentsByRole builds the role map from links in caller order, skipping
// missing or inactive records. The first active agent per role wins; order
// among duplicates is whatever the caller supplied.
func mapAgentsByRole(links []core.AgentLink, registry core.Registry) map[role.Role]core.AgentRecord {
	mapped := make(map[role.Role]core.AgentRecord, len(links))
	for _, link := range links {
		rec, ok := registry.AgentByID(link.AgentID)
		if !ok || !rec.Active {
			continue
		}
		r := agent.ResolveRole(rec)
		if r == role.Unresolved {
			continue
		}
		if _, exists := mapped[r]; !exists {
			mapped[r] = rec
		}
	}
	return mapped
}

// annotateTransition renames the trace responder to record the visual
// hand-off from the router.
func annotateTransition(responder *AgentInfo, routerName string) {
	if responder != nil && responder.Name != "" {
		responder.Name = routerName + " ▶ " + responder.Name
	}
}

func orNoResponse(text string) string {
	if strings.TrimSpace(text) == "" {
		return MsgNoResponse
	}
	return text
}
