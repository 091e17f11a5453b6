package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendeplus/roteiro/core"
)

type failingRetriever struct{ err error }

func (f failingRetriever) Query(context.Context, string, string, int) ([]Result, error) {
	return nil, f.err
}

func recordWith(provider, identifier string) core.AgentRecord {
	return core.AgentRecord{
		ID:   1,
		Name: "Agente Cotador",
		Collection: &core.CollectionRef{
			ID:         42,
			Identifier: identifier,
			Name:       "Precos",
			Provider:   provider,
		},
	}
}

func TestContext_NotConfigured(t *testing.T) {
	p := NewProvider(NewInMemoryRetriever())

	text, snap := p.Context(context.Background(), core.AgentRecord{ID: 1}, "precos")

	assert.Empty(t, text)
	assert.False(t, snap.Configured)
	assert.False(t, snap.Consulted)
	assert.Equal(t, StatusNotConfigured, snap.Status)
	assert.Empty(t, snap.Results)
}

func TestContext_MissingIdentifier(t *testing.T) {
	p := NewProvider(NewInMemoryRetriever())
	rec := recordWith(ProviderChromaDB, "")

	text, snap := p.Context(context.Background(), rec, "precos")

	assert.Empty(t, text)
	assert.True(t, snap.Configured)
	assert.Equal(t, StatusMissingIdentifier, snap.Status)
}

func TestContext_EmptyQuery(t *testing.T) {
	p := NewProvider(NewInMemoryRetriever())

	_, snap := p.Context(context.Background(), recordWith(ProviderChromaDB, "precos"), "   ")

	assert.Equal(t, StatusEmptyQuery, snap.Status)
	assert.False(t, snap.Consulted)
}

func TestContext_OpenAIProviderUnsupported(t *testing.T) {
	p := NewProvider(NewInMemoryRetriever())

	text, snap := p.Context(context.Background(), recordWith(ProviderOpenAI, "precos"), "quanto custa")

	assert.Empty(t, text)
	assert.Equal(t, StatusOpenAIUnsupported, snap.Status)
	assert.False(t, snap.Consulted)
}

func TestContext_UnknownProviderUnsupported(t *testing.T) {
	p := NewProvider(NewInMemoryRetriever())

	_, snap := p.Context(context.Background(), recordWith("RAG_PINECONE", "precos"), "quanto custa")

	assert.Equal(t, StatusProviderUnsupported, snap.Status)
}

func TestContext_QueryFailureDegrades(t *testing.T) {
	p := NewProvider(failingRetriever{err: errors.New("conexao recusada")})

	text, snap := p.Context(context.Background(), recordWith(ProviderChromaDB, "precos"), "quanto custa")

	assert.Empty(t, text)
	assert.False(t, snap.Consulted)
	assert.Equal(t, "erro ao consultar RAG: conexao recusada", snap.Status)
	assert.Zero(t, snap.TopK, "top_k is only reported for executed queries")
}

func TestContext_NilRetrieverDegrades(t *testing.T) {
	p := NewProvider(nil)

	_, snap := p.Context(context.Background(), recordWith(ProviderChromaDB, "precos"), "quanto custa")

	assert.Equal(t, "erro ao consultar RAG: retriever nao configurado", snap.Status)
}

func TestContext_SuccessFormatsAndSnapshots(t *testing.T) {
	r := NewInMemoryRetriever()
	r.Add("precos", "Troca de oleo a partir de R$ 120.", map[string]any{"source": "tabela.pdf"})
	r.Add("precos", "Alinhamento e balanceamento R$ 90.", nil)
	p := NewProvider(r)

	text, snap := p.Context(context.Background(), recordWith(ProviderChromaDB, "precos"), "quanto custa a troca de oleo")

	assert.True(t, snap.Consulted)
	assert.Equal(t, StatusOK, snap.Status)
	assert.Equal(t, DefaultTopK, snap.TopK)
	assert.Contains(t, text, "[1] (tabela.pdf) [dist: ")
	assert.Contains(t, text, "Troca de oleo a partir de R$ 120.")
}

func TestContext_NoResults(t *testing.T) {
	p := NewProvider(NewInMemoryRetriever())

	text, snap := p.Context(context.Background(), recordWith(ProviderChromaDB, "precos"), "xyzzy")

	assert.Empty(t, text)
	assert.True(t, snap.Consulted)
	assert.Equal(t, StatusNoResults, snap.Status)
}

func TestFormatContext_OmitsAbsentSegments(t *testing.T) {
	d := 0.1234
	text := FormatContext([]Result{
		{Content: "primeiro", Source: "doc.txt", Distance: &d},
		{Content: "segundo"},
	})

	assert.Equal(t, "[1] (doc.txt) [dist: 0.1234]\nprimeiro\n\n[2]\nsegundo", text)
}

func TestPickSource_KeyPriority(t *testing.T) {
	assert.Equal(t, "a.pdf", PickSource(map[string]any{"filename": "b.txt", "source": "a.pdf"}))
	assert.Equal(t, "b.txt", PickSource(map[string]any{"filename": "b.txt"}))
	assert.Equal(t, "", PickSource(nil))
}

func TestInMemoryRetriever_RanksByOverlap(t *testing.T) {
	r := NewInMemoryRetriever()
	r.Add("c", "endereco da loja centro", nil)
	r.Add("c", "horario de funcionamento da loja", nil)
	r.Add("c", "politica de devolucao", nil)

	results, err := r.Query(context.Background(), "c", "endereco loja", 2)

	assert.NoError(t, err)
	if assert.Len(t, results, 2) {
		assert.Equal(t, "endereco da loja centro", results[0].Content)
		assert.Equal(t, "horario de funcionamento da loja", results[1].Content)
		assert.Less(t, *results[0].Distance, *results[1].Distance)
	}
}

func TestInMemoryRetriever_UnknownCollection(t *testing.T) {
	results, err := NewInMemoryRetriever().Query(context.Background(), "missing", "q", 3)

	assert.NoError(t, err)
	assert.Empty(t, results)
}
