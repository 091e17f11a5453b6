// Package retrieval resolves whether an agent has a configured knowledge
// collection, queries it, and formats the hits into a context block that can
// be injected into the agent's system prompt.
//
// Retrieval never aborts an agent call: every failure path degrades to an
// empty context plus a status string, and every path (including "not
// configured") produces a Snapshot so the debug trace is uniform whether or
// not retrieval ran.
//
// Only the ChromaDB provider supports synchronous retrieval; the hosted
// OpenAI assistant provider is reported as unsupported. Concrete Retriever
// implementations live in the chroma subpackage (REST client) and in this
// package (InMemoryRetriever, for tests and local development).
package retrieval
