// Package repair recovers usable replies from malformed model output. It
// solves two independent problems:
//
//   - ExtractJSON pulls a JSON object out of raw model text, tolerating
//     markdown code fences and prose around the object, and reports failure
//     as nil rather than an error.
//   - CleanReplyText strips contract leakage (echoed contract wrappers,
//     partial JSON, stray quoting) from free-text replies through an ordered
//     chain of repair attempts.
//
// Both functions are heuristic by design. The precedence of CleanReplyText's
// repair attempts is load-bearing: ambiguous inputs resolve differently if
// steps are reordered, so changes here need matching test updates.
package repair
