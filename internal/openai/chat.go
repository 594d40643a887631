package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float32         `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) createChatCompletion(ctx context.Context, reqBody chatCompletionRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat completion request: %v", err)
	}

	req, err := c.newRequest(ctx, "POST", "chat/completions", "application/json", bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}

	var respData chatCompletionResponse
	if err := c.do(req, &respData); err != nil {
		return "", err
	}
	if len(respData.Choices) < 1 {
		return "", fmt.Errorf("no choices in chat completion response")
	}
	content := respData.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty chat completion response")
	}
	return content, nil
}
