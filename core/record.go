package core

// CollectionRef points an agent at a knowledge collection owned by an
// external retrieval provider.
type CollectionRef struct {
	// ID is the internal numeric id of the collection record.
	ID int64
	// Identifier is the provider-side collection identifier used in queries.
	Identifier string
	// Name is the human display name.
	Name string
	// Provider selects the retrieval backend (see package retrieval).
	Provider string
}

// AgentRecord is the read-only view of a configured agent. Records are owned
// by the external agent registry; the engine reads them per call and never
// mutates them. The role label is free text and resolved on demand.
type AgentRecord struct {
	ID           int64
	Name         string
	Role         string
	Model        string
	SystemPrompt string
	Version      int
	Active       bool
	Collection   *CollectionRef
	// Persona is optional bot-level instruction text injected ahead of the
	// agent's own prompt.
	Persona string
}

// AgentLink binds an agent to a bot. The engine receives the active bot's
// links in caller order; among duplicate roles the first active record wins.
type AgentLink struct {
	AgentID int64
}

// Registry resolves agent ids to records. Implementations are external; the
// engine only performs point lookups against a caller-supplied snapshot.
type Registry interface {
	AgentByID(id int64) (AgentRecord, bool)
}

// StaticRegistry is a Registry over an in-memory snapshot, for callers that
// already hold all records of the active bot.
type StaticRegistry map[int64]AgentRecord

// AgentByID returns the record for id when present.
func (r StaticRegistry) AgentByID(id int64) (AgentRecord, bool) {
	rec, ok := r[id]
	return rec, ok
}
