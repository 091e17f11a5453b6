package core

import "testing"

func TestSumUsage_NilOperands(t *testing.T) {
	total := SumUsage(nil, nil)
	if total == nil {
		t.Fatal("aggregate must not be nil")
	}
	if total.Input != 0 || total.Output != 0 || total.Total != 0 {
		t.Fatalf("expected zero aggregate, got %+v", total)
	}
}

func TestSumUsage_Accumulates(t *testing.T) {
	total := SumUsage(nil, &Usage{Input: 10, Output: 5, Total: 15})
	total.Add(&Usage{Input: 3, Output: 2, Total: 5})
	total.Add(nil)

	if total.Input != 13 || total.Output != 7 || total.Total != 20 {
		t.Fatalf("unexpected aggregate: %+v", total)
	}
}

func TestStaticRegistry_AgentByID(t *testing.T) {
	reg := StaticRegistry{7: {ID: 7, Name: "Agente Comercial"}}

	rec, ok := reg.AgentByID(7)
	if !ok || rec.Name != "Agente Comercial" {
		t.Fatalf("lookup failed: %+v %v", rec, ok)
	}
	if _, ok := reg.AgentByID(8); ok {
		t.Fatal("expected miss for unknown id")
	}
}
