package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/clinicdesk-ai/internal/config"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// LoadAWSConfig loads the default AWS chain, preferring static keys from
// config when both are set.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("bootstrap: load aws config: %w", err)
	}
	return awsCfg, nil
}

// BuildLLMClient chains the configured providers in order Groq, Gemini,
// Bedrock. A provider that fails to initialise is skipped with a warning.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *conversation.FallbackLLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	chain := conversation.NewFallbackLLMClient(logger)

	if strings.TrimSpace(cfg.GroqAPIKey) != "" {
		client, err := conversation.NewOpenAICompatClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
		if err != nil {
			logger.Warn("groq client disabled", "error", err)
		} else {
			chain.Add("groq", client)
		}
	}

	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini client disabled", "error", err)
		} else {
			chain.Add("gemini", client)
		}
	}

	if strings.TrimSpace(cfg.BedrockModelID) != "" {
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("bedrock client disabled", "error", err)
		} else {
			chain.Add("bedrock", conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID))
		}
	}

	logger.Info("text generation providers configured", "count", chain.Len())
	return chain
}

// BuildGenerator returns the no-op generator when no provider is configured,
// so every reply takes the fixed-text path.
func BuildGenerator(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.TextGenerator {
	chain := BuildLLMClient(ctx, cfg, logger)
	if chain.Len() == 0 {
		return conversation.NoopGenerator{}
	}
	return conversation.NewLLMGenerator(chain, cfg.GenerationTimeout, logger)
}
