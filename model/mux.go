package model

import (
	"context"
	"fmt"
	"strings"
)

// Mux routes each request to a provider by model identifier prefix, letting
// agent records name models from different vendors side by side (for example
// "claude-" prefixed ids to Anthropic and everything else to OpenAI).
type Mux struct {
	routes   []muxRoute
	fallback Model
}

type muxRoute struct {
	prefix string
	model  Model
}

// NewMux constructs an empty Mux. Without routes or a fallback every call
// fails, so callers wire at least one of the two.
func NewMux() *Mux {
	return &Mux{}
}

// Handle routes model identifiers starting with prefix to m. The longest
// matching prefix wins. Not safe for concurrent use with Generate; register
// all routes before serving.
func (x *Mux) Handle(prefix string, m Model) *Mux {
	x.routes = append(x.routes, muxRoute{prefix: prefix, model: m})
	return x
}

// Fallback sets the provider used when no prefix matches.
func (x *Mux) Fallback(m Model) *Mux {
	x.fallback = m
	return x
}

func (x *Mux) resolve(modelID string) Model {
	var best Model
	bestLen := -1
	for _, r := range x.routes {
		if strings.HasPrefix(modelID, r.prefix) && len(r.prefix) > bestLen {
			best = r.model
			bestLen = len(r.prefix)
		}
	}
	if best != nil {
		return best
	}
	return x.fallback
}

// Generate implements Model.
func (x *Mux) Generate(ctx context.Context, req Request) (*Response, error) {
	m := x.resolve(req.Model)
	if m == nil {
		return nil, fmt.Errorf("model: no provider registered for %q", req.Model)
	}
	return m.Generate(ctx, req)
}

// Info implements Model interface.
func (x *Mux) Info() Info {
	return Info{Name: "mux", Provider: "multi"}
}
