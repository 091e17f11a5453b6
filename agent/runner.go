package agent

import (
	"context"
	"strings"

	"github.com/atendeplus/roteiro/contract"
	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/logging"
	"github.com/atendeplus/roteiro/model"
	"github.com/atendeplus/roteiro/retrieval"
	"github.com/atendeplus/roteiro/role"
)

// Section headers of the composite system prompt. They are part of the
// deployed prompt conventions and must match what the instruction texts
// reference.
const (
	HeaderPersona      = "=== INSTRUÇÕES GLOBAIS (PERSONA) ==="
	HeaderInstructions = "=== INSTRUÇÕES DO AGENTE ==="
	HeaderSession      = "=== CONTEXTO DA SESSÃO ==="
	HeaderRAG          = "=== CONTEXTO RAG ==="
)

// Failure classifies why a hop produced no raw reply.
type Failure int

const (
	// FailureNone means the call succeeded and Raw is usable.
	FailureNone Failure = iota
	// FailureModelNotConfigured means the record carries no model identifier.
	FailureModelNotConfigured
	// FailureInvocationFailed means the model call itself errored.
	FailureInvocationFailed
)

// Outcome is the result of one agent hop. Exactly one of Raw (on success) or
// Failure (otherwise) is meaningful; Snapshot is populated on every path so
// the trace stays uniform.
type Outcome struct {
	// Raw is the model output: serialized JSON when a contract shape was
	// bound, free text otherwise. Empty when Failure is set.
	Raw string
	// Failure explains a degraded hop; FailureNone on success.
	Failure Failure
	// Err is the underlying error for FailureInvocationFailed.
	Err error
	// Snapshot records what retrieval did (or why it did not run).
	Snapshot retrieval.Snapshot
	// Usage is the hop's token accounting; nil when the hop reported none.
	Usage *core.Usage
}

// OK reports whether the hop produced a usable raw reply.
func (o Outcome) OK() bool { return o.Failure == FailureNone }

// Options configures a Runner.
type Options struct {
	// Retrieval provides prompt context from the record's knowledge
	// collection. Defaults to a provider without a backend, which degrades
	// with a status instead of failing.
	Retrieval *retrieval.Provider
	// Logger receives per-hop diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Runner invokes a single agent with the composite prompt. It holds no
// per-call state and is safe for concurrent use when its model and retriever
// are.
type Runner struct {
	model     model.Model
	retrieval *retrieval.Provider
	logger    logging.Logger
}

// NewRunner creates a Runner over a model capability.
func NewRunner(m model.Model, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Retrieval: retrieval.NewProvider(nil),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{model: m, retrieval: opts.Retrieval, logger: opts.Logger}
}

// Run executes one hop for the record: retrieval first (context degradation
// only), then the model call bound to the role's contract shape. The user
// prompt is the turn's message.
func (r *Runner) Run(ctx context.Context, rec core.AgentRecord, turn core.TurnInput) Outcome {
	modelID := strings.TrimSpace(rec.Model)
	if modelID == "" {
		r.logger.Warn("agent has no model configured", "agent", rec.Name)
		return Outcome{Failure: FailureModelNotConfigured, Snapshot: retrieval.EmptySnapshot(rec)}
	}

	ragContext, snapshot := r.retrieval.Context(ctx, rec, turn.Message)
	prompt := compositePrompt(rec, turn, ragContext)

	boundRole := ResolveRole(rec)
	req := model.Request{
		Model:        modelID,
		Instructions: prompt,
		Input:        turn.Message,
		Shape:        contract.ShapeFor(boundRole),
	}

	resp, err := r.model.Generate(ctx, req)
	if err != nil {
		r.logger.Error("model call failed", "agent", rec.Name, "model", modelID, "error", err.Error())
		return Outcome{Failure: FailureInvocationFailed, Err: err, Snapshot: snapshot}
	}

	raw := strings.TrimSpace(resp.Text)
	r.logger.Debug("model call completed", "agent", rec.Name, "model", modelID, "role", boundRole.String())
	return Outcome{Raw: raw, Snapshot: snapshot, Usage: resp.Usage}
}

// ResolveRole binds a record to the closed role enumeration: the role label
// first, the agent name as fallback.
func ResolveRole(rec core.AgentRecord) role.Role {
	if r := role.Resolve(rec.Role); r != role.Unresolved {
		return r
	}
	return role.Resolve(rec.Name)
}

// compositePrompt concatenates the prompt sections in their fixed order,
// omitting absent ones. The session context is always present.
func compositePrompt(rec core.AgentRecord, turn core.TurnInput, ragContext string) string {
	var parts []string
	if persona := strings.TrimSpace(rec.Persona); persona != "" {
		parts = append(parts, HeaderPersona+"\n"+persona)
	}
	if instructions := strings.TrimSpace(rec.SystemPrompt); instructions != "" {
		parts = append(parts, HeaderInstructions+"\n"+instructions)
	}
	parts = append(parts, HeaderSession+"\n"+turn.RenderContext())
	if ragContext != "" {
		parts = append(parts, HeaderRAG+"\n"+ragContext)
	}
	return strings.Join(parts, "\n\n")
}
