package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"personachat/internal/config"
)

const (
	chatModelName  = "gemini-2.5-flash"
	titleModelName = "gemini-2.5-flash"

	maxTitleLength = 50
)

// LLMService is the gateway to the hosted model. With no API key
// configured it stays usable: every call returns a deterministic,
// clearly-labeled placeholder instead of failing.
type LLMService struct {
	client      *genai.Client
	limiter     *rate.Limiter
	log         *logrus.Logger
	timeout     time.Duration
	maxAttempts int
}

func NewLLMService(cfg *config.Config, log *logrus.Logger) (*LLMService, error) {
	s := &LLMService{
		limiter:     rate.NewLimiter(rate.Limit(float64(cfg.ModelRequestsPerMin)/60.0), cfg.ModelRequestsPerMin),
		log:         log,
		timeout:     time.Duration(cfg.ModelTimeoutSeconds) * time.Second,
		maxAttempts: cfg.ModelMaxAttempts,
	}
	if s.maxAttempts < 1 {
		s.maxAttempts = 1
	}

	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, model gateway will serve placeholder responses")
		return s, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.log.WithError(err).Warn("Error closing GenAI client")
		}
	}
}

// Configured reports whether a live model backend is available.
func (s *LLMService) Configured() bool {
	return s.client != nil
}

// Generate produces the assistant reply for a composed prompt. Provider
// failures are absorbed: the returned text is always suitable for
// appending to the transcript, so a failed generation still yields a
// visible assistant turn.
func (s *LLMService) Generate(ctx context.Context, prompt Prompt, userMessage string) string {
	if s.client == nil {
		return placeholderResponse(userMessage)
	}

	text, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		s.log.WithError(err).Error("Model generation failed")
		return errorResponse(userMessage, err)
	}
	return text
}

func (s *LLMService) generateWithRetry(ctx context.Context, prompt Prompt) (string, error) {
	parts := []genai.Part{genai.Text(prompt.Text)}
	if prompt.HasImage() {
		parts = append(parts, genai.Blob{MIMEType: prompt.ImageMIME, Data: prompt.ImageData})
	}

	model := s.client.GenerativeModel(chatModelName)

	var lastErr error
	backoff := 500 * time.Millisecond
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			s.log.WithFields(logrus.Fields{"attempt": attempt, "backoff": backoff}).Debug("Retrying model call")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		resp, err := model.GenerateContent(attemptCtx, parts...)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		text := responseText(resp)
		if text == "" {
			lastErr = fmt.Errorf("model returned an empty response")
			continue
		}
		return text, nil
	}
	return "", lastErr
}

// GenerateTitle derives a short chat title from the first user message.
// Falls back to a prefix of the message when the model is unavailable or
// errors.
func (s *LLMService) GenerateTitle(ctx context.Context, firstMessage string) string {
	if s.client == nil {
		return fallbackTitle(firstMessage)
	}

	model := s.client.GenerativeModel(titleModelName)
	temp := float32(0.3)
	maxTokens := int32(20)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	prompt := fmt.Sprintf("Generate a short, descriptive title (max 6 words) for a chat that starts with this message: %q. Only respond with the title, nothing else.", firstMessage)

	if err := s.limiter.Wait(ctx); err != nil {
		return fallbackTitle(firstMessage)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	resp, err := model.GenerateContent(attemptCtx, genai.Text(prompt))
	if err != nil {
		s.log.WithError(err).Warn("Title generation failed, using fallback")
		return fallbackTitle(firstMessage)
	}

	title := strings.TrimSpace(responseText(resp))
	title = strings.Trim(title, "\"'")
	if title == "" {
		return fallbackTitle(firstMessage)
	}
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength-3] + "..."
	}
	return title
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// fallbackTitle takes the first five words of the message, truncated to
// 40 characters.
func fallbackTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > 5 {
		words = words[:5]
	}
	title := strings.Join(words, " ")
	if len(title) > 40 {
		title = title[:37] + "..."
	}
	if title == "" {
		title = "New Chat"
	}
	return title
}

func placeholderResponse(userMessage string) string {
	return fmt.Sprintf("**Gemini API Key Not Configured**\n\n"+
		"To enable AI responses, please:\n"+
		"1. Get your API key from https://makersuite.google.com/app/apikey\n"+
		"2. Add it to the `.env` file: `GEMINI_API_KEY=your_actual_key_here`\n"+
		"3. Restart the backend server\n\n"+
		"**Your message**: %s\n\n"+
		"*This is a placeholder response. Configure the API key to get real AI responses.*", userMessage)
}

func errorResponse(userMessage string, err error) string {
	return fmt.Sprintf("**AI Response Error**\n\n"+
		"There was an error generating the AI response. Please check:\n"+
		"- Your API key is valid\n"+
		"- You have API quota available\n"+
		"- Your internet connection is working\n\n"+
		"**Your message**: %s\n\n"+
		"*Error: %v*", userMessage, err)
}
