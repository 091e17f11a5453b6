package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/logging"
)

// Providers an agent's collection can be bound to. Only ChromaDB supports
// synchronous retrieval; the hosted OpenAI assistant provider is reported as
// unsupported rather than queried.
const (
	ProviderChromaDB = "RAG_CHROMADB"
	ProviderOpenAI   = "RAG_OPENAI"
)

// DefaultTopK is the number of passages requested per query.
const DefaultTopK = 3

// Status strings recorded in the Snapshot. These are part of the debug wire
// format surfaced to operators.
const (
	StatusNotConfigured       = "nao configurado"
	StatusNotConsulted        = "nao consultado"
	StatusMissingIdentifier   = "identificador do RAG nao encontrado"
	StatusEmptyQuery          = "consulta vazia"
	StatusOK                  = "ok"
	StatusNoResults           = "sem resultados"
	StatusOpenAIUnsupported   = "provedor OpenAI nao suportado para consulta sincrona"
	StatusProviderUnsupported = "provedor nao suportado para consulta sincrona"
)

// Result is one scored passage returned by a Retriever.
type Result struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	// Distance is the similarity distance reported by the backend; nil when
	// the backend does not score.
	Distance *float64 `json:"distance,omitempty"`
	// Source is the human-readable origin of the passage, picked from
	// metadata when the backend does not set it.
	Source string `json:"source,omitempty"`
}

// Snapshot records, per agent call, whether retrieval was configured and
// consulted and what it returned. It is always populated, even when no
// collection is configured, so the trace shape does not depend on
// configuration. JSON keys follow the debug wire format.
type Snapshot struct {
	CollectionID int64    `json:"rag_id,omitempty"`
	Identifier   string   `json:"rag_identificador,omitempty"`
	Name         string   `json:"rag_nome,omitempty"`
	Provider     string   `json:"rag_provedor,omitempty"`
	Configured   bool     `json:"rag_configurado"`
	Consulted    bool     `json:"rag_consultado"`
	Status       string   `json:"rag_status"`
	TopK         int      `json:"rag_top_k"`
	Results      []Result `json:"rag_resultados"`
}

// EmptySnapshot builds the baseline snapshot for a record before any query
// runs: configured when a collection reference is present, never consulted.
func EmptySnapshot(rec core.AgentRecord) Snapshot {
	snap := Snapshot{Results: []Result{}}
	if rec.Collection != nil {
		snap.CollectionID = rec.Collection.ID
		snap.Identifier = rec.Collection.Identifier
		snap.Name = rec.Collection.Name
		snap.Provider = rec.Collection.Provider
		snap.Configured = rec.Collection.Identifier != "" || rec.Collection.ID != 0
	}
	if snap.Configured {
		snap.Status = StatusNotConsulted
	} else {
		snap.Status = StatusNotConfigured
	}
	return snap
}

// Retriever is the narrow capability interface a vector-search backend
// implements: top-k similarity search over a named collection.
type Retriever interface {
	Query(ctx context.Context, collection, query string, topK int) ([]Result, error)
}

// Options configures a Provider.
type Options struct {
	// TopK is the number of passages requested per query.
	TopK int
	// Logger receives query outcomes. Defaults to NoOp.
	Logger logging.Logger
}

// Provider turns an agent record plus a query string into an injectable
// context block and a debug snapshot.
type Provider struct {
	retriever Retriever
	topK      int
	logger    logging.Logger
}

// NewProvider creates a Provider over a Retriever. A nil retriever is valid:
// configured agents then degrade with a query-error status instead of
// failing the call.
func NewProvider(retriever Retriever, optFns ...func(o *Options)) *Provider {
	opts := Options{
		TopK:   DefaultTopK,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{retriever: retriever, topK: opts.TopK, logger: opts.Logger}
}

// Context resolves and queries the record's collection for query. It returns
// the formatted context block ("" when nothing usable was retrieved) and the
// snapshot describing what happened. Retrieval failure never propagates; it
// only degrades context quality.
func (p *Provider) Context(ctx context.Context, rec core.AgentRecord, query string) (string, Snapshot) {
	snap := EmptySnapshot(rec)
	if !snap.Configured {
		return "", snap
	}
	if snap.Identifier == "" {
		snap.Status = StatusMissingIdentifier
		return "", snap
	}
	if strings.TrimSpace(query) == "" {
		snap.Status = StatusEmptyQuery
		return "", snap
	}

	switch snap.Provider {
	case ProviderChromaDB:
		// fall through to the query below
	case ProviderOpenAI:
		snap.Status = StatusOpenAIUnsupported
		return "", snap
	default:
		snap.Status = StatusProviderUnsupported
		return "", snap
	}

	results, err := p.query(ctx, snap.Identifier, query)
	if err != nil {
		snap.Status = fmt.Sprintf("erro ao consultar RAG: %v", err)
		p.logger.Warn("retrieval query failed", "collection", snap.Identifier, "error", err.Error())
		return "", snap
	}

	for i := range results {
		if results[i].Source == "" {
			results[i].Source = PickSource(results[i].Metadata)
		}
	}

	snap.Consulted = true
	snap.TopK = p.topK
	snap.Results = results
	if len(results) == 0 {
		snap.Status = StatusNoResults
	} else {
		snap.Status = StatusOK
	}
	p.logger.Debug("retrieval query completed", "collection", snap.Identifier, "hits", len(results), "status", snap.Status)
	return FormatContext(results), snap
}

func (p *Provider) query(ctx context.Context, collection, query string) ([]Result, error) {
	if p.retriever == nil {
		return nil, fmt.Errorf("retriever nao configurado")
	}
	return p.retriever.Query(ctx, collection, query, p.topK)
}

// FormatContext renders passages as the prompt-injectable block:
// "[i] (source) [dist: d.dddd]" header lines followed by the passage text,
// entries joined by blank lines. Source and distance are omitted when absent.
func FormatContext(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	entries := make([]string, 0, len(results))
	for i, r := range results {
		header := fmt.Sprintf("[%d]", i+1)
		if r.Source != "" {
			header += fmt.Sprintf(" (%s)", r.Source)
		}
		if r.Distance != nil {
			header += fmt.Sprintf(" [dist: %.4f]", *r.Distance)
		}
		entries = append(entries, header+"\n"+r.Content)
	}
	return strings.Join(entries, "\n\n")
}

// PickSource extracts a display source from passage metadata, trying the
// conventional keys in order.
func PickSource(metadata map[string]any) string {
	for _, key := range []string{"source", "filename", "file", "title", "name"} {
		if v, ok := metadata[key]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
