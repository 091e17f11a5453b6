// Package roteiro provides a high-level façade over the orchestration engine
// for routing one inbound conversational message through a role-typed society
// of LLM-backed agents. Most applications interact with this package by:
//  1. Creating a Roteiro via New() (optionally overriding the model capability,
//     the retrieval backend and the logger)
//  2. Calling Orchestrate with the turn input, the active bot's agent links
//     and an agent registry snapshot
//
// The façade delegates routing to engine.Engine while keeping setup concise.
// All defaults are safe for local development and testing; production
// deployments supply real model adapters (model/openai, model/anthropic), the
// chroma retriever and a structured logger.
package roteiro

import (
	"context"

	"github.com/atendeplus/roteiro/agent"
	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/engine"
	"github.com/atendeplus/roteiro/logging"
	"github.com/atendeplus/roteiro/model"
	"github.com/atendeplus/roteiro/model/anthropic"
	"github.com/atendeplus/roteiro/model/openai"
	"github.com/atendeplus/roteiro/repair"
	"github.com/atendeplus/roteiro/retrieval"
)

// Options configures the Roteiro instance.
type Options struct {
	// Model is the invocation capability every agent hop goes through.
	// Defaults to a mux routing "claude" model ids to Anthropic and
	// everything else to OpenAI, both configured from the environment.
	Model model.Model

	// Retriever backs the retrieval context provider. Defaults to an empty
	// in-memory retriever.
	Retriever retrieval.Retriever

	// TopK is the number of passages requested per retrieval query.
	TopK int

	// Logger receives diagnostics from the engine and the runner. Defaults
	// to NoOp.
	Logger logging.Logger
}

// Roteiro is the high-level façade aggregating the runner and the engine.
type Roteiro struct {
	opts   Options
	engine *engine.Engine
	logger logging.Logger
}

// New creates a Roteiro instance with optional overrides. Any unset
// capability is initialized with a local default.
func New(optFns ...func(o *Options)) *Roteiro {
	opts := Options{
		Retriever: retrieval.NewInMemoryRetriever(),
		TopK:      retrieval.DefaultTopK,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == nil {
		opts.Model = model.NewMux().
			Handle("claude", anthropic.NewModel()).
			Fallback(openai.NewModel())
	}

	provider := retrieval.NewProvider(opts.Retriever, func(o *retrieval.Options) {
		o.TopK = opts.TopK
		o.Logger = opts.Logger
	})
	runner := agent.NewRunner(opts.Model, func(o *agent.Options) {
		o.Retrieval = provider
		o.Logger = opts.Logger
	})
	eng := engine.New(runner, func(o *engine.Options) {
		o.Logger = opts.Logger
	})

	return &Roteiro{opts: opts, engine: eng, logger: opts.Logger}
}

// Orchestrate routes one turn and returns the reply, trace and aggregated
// usage. The final text is passed through the reply repair layer, so
// contract leakage from the last hop never reaches the end user.
func (r *Roteiro) Orchestrate(ctx context.Context, turn core.TurnInput, links []core.AgentLink, registry core.Registry) (engine.Result, error) {
	if err := turn.Validate(); err != nil {
		return engine.Result{}, err
	}

	turnID := core.NewID()
	r.logger.Debug("turn started", "turn_id", turnID, "channel", turn.Channel)

	res := r.engine.Orchestrate(ctx, turn, links, registry)

	if cleaned := repair.CleanReplyText(res.Response); cleaned != "" {
		res.Response = cleaned
	} else {
		res.Response = engine.MsgNoResponse
	}

	r.logger.Debug("turn finished", "turn_id", turnID, "responder", responderName(res))
	return res, nil
}

func responderName(res engine.Result) string {
	if res.Trace.Responder != nil {
		return res.Trace.Responder.Name
	}
	return ""
}
