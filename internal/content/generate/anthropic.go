// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var errEmptyCompletion = errors.New("model returned no text content")

// AnthropicModel implements [Model] with the Claude Messages API.
type AnthropicModel struct {
	client *anthropic.Client
	model  string
}

var _ Model = (*AnthropicModel)(nil)

// NewAnthropicModel returns nil when apiKey is empty so callers can pass the
// result straight to [NewService].
func NewAnthropicModel(apiKey, model string, options ...option.RequestOption) Model {
	if apiKey == "" {
		return nil
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, options...)...)
	return &AnthropicModel{client: &client, model: model}
}

// Complete sends prompt as a single user turn and returns the first text block.
func (adapter *AnthropicModel) Complete(context context.Context, prompt string) (string, error) {
	message, err := adapter.client.Messages.New(context, anthropic.MessageNewParams{
		Model:     anthropic.Model(adapter.model),
		MaxTokens: MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic_messages_new_failed: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errEmptyCompletion
}
