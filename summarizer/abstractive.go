package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// UnavailableMessage is returned when no abstractive model is configured
	UnavailableMessage = "model not available"

	// ErrorMessage is returned when the model call fails
	ErrorMessage = "Error in summarization"

	minWords      = 50
	chunkChars    = 1024
	minChunkWords = 30
	defaultMaxLen = 130
	defaultMinLen = 30
	defaultModel  = openai.GPT4oMini
)

// Options bound the length of an abstractive summary, in words
type Options struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

func (o Options) withDefaults() Options {
	if o.MaxLength <= 0 {
		o.MaxLength = defaultMaxLen
	}
	if o.MinLength <= 0 || o.MinLength > o.MaxLength {
		o.MinLength = defaultMinLen
		if o.MinLength > o.MaxLength {
			o.MinLength = o.MaxLength
		}
	}
	return o
}

// Abstractive generates new summary text. Implementations never return
// errors; failures are reported through sentinel strings.
type Abstractive interface {
	Available() bool
	Summarize(ctx context.Context, text string, opts Options) string
}

// Unavailable is the Abstractive used when no model could be configured
type Unavailable struct{}

// Available always reports false
func (Unavailable) Available() bool { return false }

// Summarize always returns UnavailableMessage
func (Unavailable) Summarize(context.Context, string, Options) string {
	return UnavailableMessage
}

// OpenAIConfig configures the chat completion summarizer
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional: OpenAI-compatible endpoint
	Model   string
}

// chatClient is the subset of the OpenAI client used for summaries
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI summarizes text with a chat completion model
type OpenAI struct {
	client chatClient
	model  string
	logger *slog.Logger
}

// NewAbstractive returns an OpenAI summarizer when an API key is
// configured and Unavailable otherwise.
func NewAbstractive(cfg OpenAIConfig, logger *slog.Logger) Abstractive {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		logger.Warn("abstractive summarization disabled, no API key configured")
		return Unavailable{}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	logger.Info("abstractive summarization enabled", "model", model)
	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
	}
}

// Available reports true
func (o *OpenAI) Available() bool { return true }

// Summarize returns text unchanged when it is shorter than 50 words.
// Longer text is summarized in 1024-character chunks; chunks of 30 words
// or fewer are skipped.
func (o *OpenAI) Summarize(ctx context.Context, text string, opts Options) string {
	if len(strings.Fields(text)) < minWords {
		return text
	}
	opts = opts.withDefaults()

	var summaries []string
	for _, chunk := range chunkText(text, chunkChars) {
		if len(strings.Fields(chunk)) <= minChunkWords {
			continue
		}
		summary, err := o.summarizeChunk(ctx, chunk, opts)
		if err != nil {
			o.logger.Error("abstractive summarization failed", "error", err)
			return ErrorMessage
		}
		summaries = append(summaries, summary)
	}

	return strings.Join(summaries, " ")
}

func (o *OpenAI) summarizeChunk(ctx context.Context, chunk string, opts Options) (string, error) {
	prompt := fmt.Sprintf("Summarize the following news text in between %d and %d words. Keep only facts stated in the text and use neutral language:\n\n---\n%s\n---\n\nSummary:", opts.MinLength, opts.MaxLength, chunk)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an assistant that writes concise, neutral summaries of news articles.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   opts.MaxLength * 2,
		N:           1,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned empty response or choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// chunkText splits text into pieces of at most size runes
func chunkText(text string, size int) []string {
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
