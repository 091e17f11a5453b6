// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. It adapts the normalized Request/Response structures
// into the SDK's message format and back, enforcing structured output shapes
// through the json_schema response format.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/model"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model. The request's model identifier overrides
// the adapter default, so one adapter serves every agent record.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	resp, err := m.client.Chat.Completions.New(ctx, m.buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}
	return &model.Response{
		Text: resp.Choices[0].Message.Content,
		Usage: &core.Usage{
			Input:  int(resp.Usage.PromptTokens),
			Output: int(resp.Usage.CompletionTokens),
			Total:  int(resp.Usage.TotalTokens),
		},
	}, nil
}

// buildParams assembles the OpenAI request parameters including the response
// format when a shape is bound.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	modelID := req.Model
	if modelID == "" {
		modelID = m.opts.Model
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}
	messages = append(messages, openai.UserMessage(req.Input))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               modelID,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	if req.Shape != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.Shape.Name,
					Schema: req.Shape.Schema,
				},
			},
		}
	}
	return params
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: "openai",
	}
}
