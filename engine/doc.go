// Package engine implements the routing/coordination state machine that
// turns one inbound message into one outbound reply.
//
// The pipeline is strictly sequential: the triage agent (router) runs first,
// and its decision leads to at most one of a direct reply, a clarifying
// question, a human handoff, a specialist hop, or a coordinator hop (which
// may itself delegate to exactly one specialist). Malformed model output
// never fails a turn; it downgrades step by step until the raw text itself
// becomes the reply.
//
// Every hop is recorded in the Trace and its token usage summed into the
// Result, so a turn is fully inspectable after the fact.
package engine
