// Package agent runs one model call for one agent record: it assembles the
// composite system prompt (bot persona, agent instructions, session context,
// retrieval context), binds the structured output shape for the record's
// role, and invokes the model capability.
//
// The Runner never raises on expected degradation. A missing model id or a
// failed invocation produce an Outcome with an explicit Failure variant, so
// every caller handles the degraded case; only programming errors surface as
// panics from lower layers.
package agent
