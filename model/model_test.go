package model

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/atendeplus/roteiro/core"
)

func TestMockModel_CannedByModelID(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("router-model", `{"agente_destino": "comercial"}`)

	resp, err := m.Generate(context.Background(), Request{Model: "router-model", Input: "oi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `{"agente_destino": "comercial"}` {
		t.Errorf("unexpected text: %q", resp.Text)
	}
	if resp.Usage == nil || resp.Usage.Total != 15 {
		t.Errorf("expected default usage, got %+v", resp.Usage)
	}

	resp, err = m.Generate(context.Background(), Request{Model: "other-model", Input: "oi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Mock response to: oi" {
		t.Errorf("fallback text: %q", resp.Text)
	}
}

func TestMockModel_UsageAndError(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.SetUsage(core.Usage{Input: 100, Output: 50, Total: 150})

	resp, err := m.Generate(context.Background(), Request{Model: "x", Input: "oi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.Input != 100 || resp.Usage.Total != 150 {
		t.Errorf("usage = %+v", resp.Usage)
	}

	boom := errors.New("boom")
	m.SetError(boom)
	if _, err := m.Generate(context.Background(), Request{Model: "x"}); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestMux_PrefixRouting(t *testing.T) {
	claude := NewMockModel("claude", "anthropic")
	claude.AddResponse("claude-sonnet-4", "from anthropic")
	gpt := NewMockModel("gpt", "openai")
	gpt.AddResponse("gpt-4o-mini", "from openai")

	mux := NewMux().Handle("claude", claude).Fallback(gpt)

	resp, err := mux.Generate(context.Background(), Request{Model: "claude-sonnet-4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "from anthropic" {
		t.Errorf("claude route: %q", resp.Text)
	}

	resp, err = mux.Generate(context.Background(), Request{Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "from openai" {
		t.Errorf("fallback route: %q", resp.Text)
	}
}

func TestMux_LongestPrefixWins(t *testing.T) {
	generic := NewMockModel("generic", "mock")
	generic.AddResponse("claude-opus-4", "generic")
	specific := NewMockModel("specific", "mock")
	specific.AddResponse("claude-opus-4", "specific")

	mux := NewMux().Handle("claude", generic).Handle("claude-opus", specific)

	resp, err := mux.Generate(context.Background(), Request{Model: "claude-opus-4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "specific" {
		t.Errorf("expected longest prefix route, got %q", resp.Text)
	}
}

func TestMux_NoProvider(t *testing.T) {
	mux := NewMux()
	if _, err := mux.Generate(context.Background(), Request{Model: "gpt-4o"}); err == nil {
		t.Fatal("expected error without routes")
	}
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := NewMockModel("flaky", "mock")
	inner.SetError(errors.New("vendor down"))

	b := NewBreaker(inner, func(o *BreakerOptions) {
		o.MaxFailures = 2
		o.Timeout = 5 * time.Millisecond
	})

	for i := 0; i < 2; i++ {
		if _, err := b.Generate(context.Background(), Request{Model: "x"}); err == nil {
			t.Fatal("expected failure")
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("expected open circuit, got %v", b.State())
	}

	_, err := b.Generate(context.Background(), Request{Model: "x"})
	if err == nil || !strings.Contains(err.Error(), "circuit open") {
		t.Fatalf("expected fast-fail error, got %v", err)
	}

	// After the timeout a half-open probe succeeds and closes the circuit.
	inner.SetError(nil)
	time.Sleep(20 * time.Millisecond)
	if _, err := b.Generate(context.Background(), Request{Model: "x"}); err != nil {
		t.Fatalf("probe should succeed: %v", err)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("expected closed circuit, got %v", b.State())
	}
}

func TestBreaker_PassesThroughResponses(t *testing.T) {
	inner := NewMockModel("ok", "mock")
	inner.AddResponse("m1", "tudo certo")

	b := NewBreaker(inner)
	resp, err := b.Generate(context.Background(), Request{Model: "m1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "tudo certo" {
		t.Errorf("text = %q", resp.Text)
	}
	if b.Info().Name != "ok" {
		t.Errorf("info passthrough broken: %+v", b.Info())
	}
}
