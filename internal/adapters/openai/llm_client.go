package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// OpenAIClient is an implementation of the LLMClient interface using OpenAI
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `Classify this email into exactly one of these categories: Important, Promotions, Social, Marketing, Spam, General.
From: %s
Subject: %s
Preview: %s
Body: %s
ONLY respond with the category name.`,
	}
}

// CategorizeEmail asks the model for a single category label
func (c *OpenAIClient) CategorizeEmail(ctx context.Context, email *core.EmailItem) (string, error) {
	prompt := buildPrompt(c.promptFormat, email, c.textProcessor, c.maxBodySize)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Debug("Model reply",
		zap.String("message_id", email.ID),
		zap.String("reply", reply))

	return reply, nil
}

// buildPrompt fills the taxonomy prompt with the email's fields, substituting
// placeholders for missing values and capping the body at maxBodySize bytes.
func buildPrompt(format string, email *core.EmailItem, tp *utils.TextProcessor, maxBodySize int) string {
	from := email.From
	if from == "" {
		from = "Unknown"
	}
	subject := email.Subject
	if subject == "" {
		subject = "No Subject"
	}
	preview := email.Snippet
	if preview == "" {
		preview = "No preview"
	}
	body := tp.ProcessText(email.BodyText, maxBodySize)

	return fmt.Sprintf(format, from, subject, preview, body)
}
