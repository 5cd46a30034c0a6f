package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/utils"
)

// GeminiClient is an implementation of the LLMClient interface using Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `Classify this email into exactly one of these categories: Important, Promotions, Social, Marketing, Spam, General.
From: %s
Subject: %s
Preview: %s
Body: %s
ONLY respond with the category name.`,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// CategorizeEmail asks the model for a single category label
func (c *GeminiClient) CategorizeEmail(ctx context.Context, email *core.EmailItem) (string, error) {
	prompt := buildPrompt(c.promptFormat, email, c.textProcessor, c.maxBodySize)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type from Gemini")
	}

	reply := strings.TrimSpace(string(text))
	c.logger.Debug("Model reply",
		zap.String("message_id", email.ID),
		zap.String("reply", reply))

	return reply, nil
}

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
