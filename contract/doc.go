// Package contract defines the structured output shapes that role-bound
// agents must produce, together with their construction-time invariants.
//
// Each role in the closed role enumeration maps to exactly one shape:
// triage produces a RouteDecision, the coordinator a CoordinatorDecision,
// the summarizer a HandoffSummary, and every specialist an AgentReply.
// Shapes are validated on parse and rejected on invariant violations rather
// than silently coerced, so a decision object that survives parsing can be
// trusted by the orchestrator downstream.
package contract
