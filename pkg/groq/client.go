// Package groq talks to Groq's OpenAI-compatible chat completion endpoint.
package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dayboard-backend/internal/triage/domain"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel handles classification; replyModel drafts standalone
	// replies where a smaller model is enough.
	DefaultModel = "llama-3.1-70b-versatile"
	replyModel   = "llama-3.1-8b-instant"
)

type Client struct {
	client *openai.Client
	model  string
}

type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string // overridden in tests
}

func NewClient(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}
}

const analyzeSystemPrompt = `You are an AI assistant that analyzes emails and generates contextual smart replies.

Analyze the email content and respond with a JSON object containing:
- reply: a single, contextually appropriate reply based on the email content (not an array)
- tone: detected tone (professional, casual, urgent, friendly, formal)
- isEvent: boolean (true if contains meeting/appointment/deadline/event)
- eventDetails: if isEvent is true, extract {title, date, time, location} from email content
- hasDeadline: boolean (true if email mentions a deadline or due date)
- deadline: if hasDeadline is true, extract the deadline date in YYYY-MM-DD format
- taskSuggestion: specific task title based on email content
- priority: suggested priority level (high, medium, low) based on urgency and content
- category: email category (meeting, deadline, question, request, information, social)

For the reply:
- Make it specific to the email content, not generic
- Consider the sender's tone and formality level
- Address specific points mentioned in the email
- Keep it concise but complete (2-4 sentences)
- Match the appropriate tone for the context

%s

Only respond with valid JSON, no other text.`

// AnalyzeEmail issues one completion request and parses the strict-JSON
// result. A *domain.ParseError means the model broke the contract; callers
// fall back to the heuristic classifier.
func (c *Client) AnalyzeEmail(ctx context.Context, subject, from, body string, regenerate bool) (*domain.ClassificationResult, error) {
	regenerateNote := ""
	temperature := float32(0.7)
	if regenerate {
		regenerateNote = "Generate a different reply variation while maintaining the same context and tone."
		temperature = 0.9
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   1000,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(analyzeSystemPrompt, regenerateNote),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Subject: %s\nFrom: %s\nBody: %s", subject, from, body),
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.ParseError{Detail: "empty completion"}
	}

	return parseAnalysis(resp.Choices[0].Message.Content)
}

const replyPrompt = `You are an AI assistant helping to generate professional email replies.

Original email details:
- From: %s
- Subject: %s
- Body: %s

Please generate a professional, helpful, and contextually appropriate reply to this email. The reply should:
1. Be polite and professional
2. Address the main points from the original email
3. Be concise but complete
4. Use appropriate business email tone
5. Include a proper greeting and closing

Generate only the email body content, no subject line or headers.`

// GenerateReply drafts a plain-text reply without classification.
func (c *Client) GenerateReply(ctx context.Context, subject, from, body string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       replyModel,
		Temperature: 0.7,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(replyPrompt, from, subject, body),
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no reply generated")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseAnalysis(content string) (*domain.ClassificationResult, error) {
	content = stripCodeFence(content)

	var result domain.ClassificationResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, &domain.ParseError{Detail: err.Error()}
	}

	if result.Reply == "" {
		return nil, &domain.ParseError{Detail: "missing required field: reply"}
	}
	if result.Category == "" {
		return nil, &domain.ParseError{Detail: "missing required field: category"}
	}

	// Normalize the flag/detail biconditionals rather than trusting the model.
	if !result.IsEvent {
		result.EventDetails = nil
	} else if result.EventDetails == nil {
		result.IsEvent = false
	}
	if !result.HasDeadline {
		result.Deadline = ""
	} else if result.Deadline == "" {
		result.HasDeadline = false
	}

	result.Source = domain.SourceLLM
	return &result, nil
}

// stripCodeFence tolerates models that wrap the JSON in ```json fences.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
