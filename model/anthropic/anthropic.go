// Package anthropic provides a model wrapper for the Anthropic Claude API.
//
// The Messages API has no json_schema response format, so structured output
// shapes are enforced by exposing the shape as a single forced tool and
// reading the tool call input back as the response body.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/atendeplus/roteiro/core"
	"github.com/atendeplus/roteiro/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	modelID := m.opts.Model
	if req.Model != "" {
		modelID = anthropic.Model(req.Model)
	}

	params := anthropic.MessageNewParams{
		Model:       modelID,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Input))},
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if req.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
	}

	if req.Shape != nil {
		params.Tools = []anthropic.ToolUnionParam{shapeTool(req.Shape)}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.Shape.Name},
		}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	return &model.Response{
		Text: extractText(resp, req.Shape),
		Usage: &core.Usage{
			Input:  int(resp.Usage.InputTokens),
			Output: int(resp.Usage.OutputTokens),
			Total:  int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

// shapeTool exposes a structured output shape as an Anthropic tool.
func shapeTool(shape *model.Shape) anthropic.ToolUnionParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Type: constant.Object("object"),
	}
	if properties, exists := shape.Schema["properties"]; exists {
		inputSchema.Properties = properties
	}
	if required, exists := shape.Schema["required"]; exists {
		if reqSlice, ok := required.([]string); ok {
			inputSchema.Required = reqSlice
		}
	}
	return anthropic.ToolUnionParamOfTool(inputSchema, shape.Name)
}

// extractText returns the shape's tool call input as JSON when a shape was
// forced, otherwise the concatenated text blocks.
func extractText(resp *anthropic.Message, shape *model.Shape) string {
	var texts []string
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			if textBlock.Text != "" {
				texts = append(texts, textBlock.Text)
			}
		case "tool_use":
			toolBlock := block.AsToolUse()
			if shape == nil || toolBlock.Name != shape.Name {
				continue
			}
			if toolBlock.Input != nil {
				if raw, err := json.Marshal(toolBlock.Input); err == nil {
					return string(raw)
				}
			}
		}
	}
	return strings.Join(texts, "\n")
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     string(m.opts.Model),
		Provider: "anthropic",
	}
}
