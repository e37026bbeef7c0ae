package conversation

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// Generation is the outcome of a text-generation call: either generated
// text or Unavailable.
type Generation struct {
	Text      string
	Available bool
}

// Generated wraps successfully generated text.
func Generated(text string) Generation {
	return Generation{Text: text, Available: true}
}

// Unavailable means the caller must use its deterministic fallback.
var Unavailable = Generation{}

// TextGenerator phrases free-text replies.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userMessage string) Generation
	// Probe reports whether the service currently answers at all.
	Probe(ctx context.Context) bool
}

const (
	defaultGenerationTimeout = 15 * time.Second
	generateMaxTokens        = 300
	generateTemperature      = 0.4
)

// LLMGenerator adapts an LLMClient into a TextGenerator. Every failure,
// including an empty completion, is reported as Unavailable.
type LLMGenerator struct {
	client  LLMClient
	timeout time.Duration
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewLLMGenerator wraps client. A zero timeout selects the default.
func NewLLMGenerator(client LLMClient, timeout time.Duration, logger *logging.Logger) *LLMGenerator {
	if client == nil {
		panic("conversation: llm client cannot be nil")
	}
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMGenerator{
		client:  client,
		timeout: timeout,
		logger:  logger,
		tracer:  otel.Tracer("clinicdesk.internal.conversation.generation"),
	}
}

func (g *LLMGenerator) Generate(ctx context.Context, systemPrompt, userMessage string) Generation {
	ctx, span := g.tracer.Start(ctx, "conversation.generate")
	defer span.End()

	prompt, blocked := screenMessage(userMessage)
	if len(blocked) > 0 || prompt == "" {
		span.SetAttributes(attribute.StringSlice("clinicdesk.guard.inbound", blocked))
		g.logger.Warn("message withheld from text generation", "reasons", blocked)
		return Unavailable
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Complete(ctx, LLMRequest{
		System:      []string{systemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		span.RecordError(err)
		g.logger.Warn("text generation unavailable", "error", err)
		return Unavailable
	}
	text := strings.TrimSpace(resp.Text)
	span.SetAttributes(attribute.Int("clinicdesk.generation.output_tokens", int(resp.Usage.OutputTokens)))
	if text == "" {
		return Unavailable
	}
	if leaks := screenReply(text); len(leaks) > 0 {
		span.SetAttributes(attribute.StringSlice("clinicdesk.guard.outbound", leaks))
		g.logger.Warn("generated reply discarded", "reasons", leaks)
		return Unavailable
	}
	return Generated(text)
}

func (g *LLMGenerator) Probe(ctx context.Context) bool {
	ctx, span := g.tracer.Start(ctx, "conversation.generation_probe")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Complete(ctx, LLMRequest{
		System:      []string{`Reply with only "OK".`},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: "Respond with OK"}},
		MaxTokens:   5,
		Temperature: 0.1,
	})
	if err != nil {
		span.RecordError(err)
		g.logger.Warn("text generation probe failed", "error", err)
		return false
	}
	return strings.TrimSpace(resp.Text) != ""
}

// NoopGenerator is used when no provider is configured.
type NoopGenerator struct{}

func (NoopGenerator) Generate(context.Context, string, string) Generation { return Unavailable }

func (NoopGenerator) Probe(context.Context) bool { return false }
