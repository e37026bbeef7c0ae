package conversation

import (
	"context"
	"errors"

	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// ErrNoLLMProvider is returned by an empty fallback chain.
var ErrNoLLMProvider = errors.New("conversation: no llm provider configured")

// FallbackLLMClient tries each provider in order until one succeeds.
type FallbackLLMClient struct {
	providers []namedClient
	logger    *logging.Logger
}

type namedClient struct {
	name   string
	client LLMClient
}

// NewFallbackLLMClient creates an empty chain; add providers with Add.
func NewFallbackLLMClient(logger *logging.Logger) *FallbackLLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackLLMClient{logger: logger}
}

// Add appends a provider. Nil clients are ignored.
func (c *FallbackLLMClient) Add(name string, client LLMClient) *FallbackLLMClient {
	if client != nil {
		c.providers = append(c.providers, namedClient{name: name, client: client})
	}
	return c
}

// Len reports how many providers are configured.
func (c *FallbackLLMClient) Len() int {
	return len(c.providers)
}

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if len(c.providers) == 0 {
		return LLMResponse{}, ErrNoLLMProvider
	}
	var errs []error
	for i, p := range c.providers {
		resp, err := p.client.Complete(ctx, req)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback llm succeeded", "provider", p.name)
			}
			return resp, nil
		}
		c.logger.Warn("llm provider failed",
			"provider", p.name,
			"error", err.Error(),
			"remaining", len(c.providers)-i-1,
		)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return LLMResponse{}, errors.Join(errs...)
}
