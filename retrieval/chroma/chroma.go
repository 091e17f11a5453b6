// Package chroma implements retrieval.Retriever against a ChromaDB server
// over its REST API. Queries are embedded with the OpenAI embeddings API
// before being sent as a query_embeddings similarity search, matching how the
// collections were populated.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/atendeplus/roteiro/retrieval"
)

// DefaultEmbeddingModel embeds queries; it must match the model used to
// populate the collections.
const DefaultEmbeddingModel = openai.EmbeddingModelTextEmbedding3Small

// Options configures the chroma client.
type Options struct {
	// Host is "host", "host:port" or a full URL. A https scheme enables TLS;
	// without an explicit port the ChromaDB default 8000 is used.
	Host string
	// EmbeddingModel embeds query strings.
	EmbeddingModel openai.EmbeddingModel
	// HTTPClient performs the REST calls.
	HTTPClient *http.Client
}

// Client queries ChromaDB collections by name.
type Client struct {
	baseURL  string
	embedder *openai.Client
	model    openai.EmbeddingModel
	http     *http.Client
}

// New creates a chroma client with a fresh OpenAI client for embeddings
// (configured from the environment).
func New(optFns ...func(o *Options)) *Client {
	embedder := openai.NewClient()
	return NewFromClient(&embedder, optFns...)
}

// NewFromClient creates a chroma client reusing an existing OpenAI client.
func NewFromClient(embedder *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Host:           "localhost:8000",
		EmbeddingModel: DefaultEmbeddingModel,
		HTTPClient:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{
		baseURL:  parseHost(opts.Host),
		embedder: embedder,
		model:    opts.EmbeddingModel,
		http:     opts.HTTPClient,
	}
}

// parseHost normalizes the host option into a base URL.
func parseHost(host string) string {
	raw := strings.TrimSpace(host)
	if raw == "" {
		raw = "localhost"
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "http://localhost:8000"
	}
	port := parsed.Port()
	if port == "" {
		port = "8000"
	}
	return fmt.Sprintf("%s://%s:%s", parsed.Scheme, parsed.Hostname(), port)
}

type collectionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type queryRequest struct {
	QueryEmbeddings [][]float64 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type queryResponse struct {
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Query implements retrieval.Retriever: embed the query, resolve the
// collection name to its id, and run a top-k similarity search.
func (c *Client) Query(ctx context.Context, collection, query string, topK int) ([]retrieval.Result, error) {
	embedding, err := c.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	info, err := c.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	req := queryRequest{
		QueryEmbeddings: [][]float64{embedding},
		NResults:        topK,
		Include:         []string{"documents", "metadatas", "distances"},
	}
	if err := c.post(ctx, fmt.Sprintf("/api/v1/collections/%s/query", url.PathEscape(info.ID)), req, &resp); err != nil {
		return nil, err
	}

	var documents []string
	if len(resp.Documents) > 0 {
		documents = resp.Documents[0]
	}
	var metadatas []map[string]any
	if len(resp.Metadatas) > 0 {
		metadatas = resp.Metadatas[0]
	}
	var distances []float64
	if len(resp.Distances) > 0 {
		distances = resp.Distances[0]
	}

	results := make([]retrieval.Result, 0, len(documents))
	for i, doc := range documents {
		r := retrieval.Result{Content: doc}
		if i < len(metadatas) {
			r.Metadata = metadatas[i]
			r.Source = retrieval.PickSource(metadatas[i])
		}
		if i < len(distances) {
			d := distances[i]
			r.Distance = &d
		}
		results = append(results, r)
	}
	return results, nil
}

// embed turns the query string into a vector via the OpenAI embeddings API.
func (c *Client) embed(ctx context.Context, query string) ([]float64, error) {
	resp, err := c.embedder.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: c.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{query},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding query: empty response")
	}
	return resp.Data[0].Embedding, nil
}

// collection resolves a collection name to its server-side record.
func (c *Client) collection(ctx context.Context, name string) (*collectionInfo, error) {
	var info collectionInfo
	if err := c.get(ctx, "/api/v1/collections/"+url.PathEscape(name), &info); err != nil {
		return nil, fmt.Errorf("resolving collection %q: %w", name, err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("resolving collection %q: not found", name)
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chroma api error: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
