// Package model defines the provider-agnostic abstractions and concrete
// helpers for invoking language models inside Roteiro.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Express structured output contracts as a Shape the provider enforces
//   - Route heterogeneous model identifiers to vendors through a Mux
//   - Protect flaky vendors with a circuit Breaker wrapper
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (invoker, engine) remain decoupled from vendor SDKs.
package model
