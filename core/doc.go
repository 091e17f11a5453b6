// Package core provides the foundational domain types shared by the
// orchestration engine. It defines:
//
//   - TurnInput (one end-user message plus immutable session context)
//   - AgentRecord / CollectionRef / AgentLink (read-only agent configuration)
//   - Registry (external agent lookup consumed through a narrow interface)
//   - Usage (per-hop and aggregate token accounting)
//
// The package intentionally keeps implementation concerns (model adapters,
// retrieval providers, the routing state machine) out of scope, exposing small
// types so external registries and capabilities can be plugged in without
// depending on the engine itself.
package core
