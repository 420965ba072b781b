package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpupo63/blog-admin-console/config"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
)

const keywordsService = "keywords"

const suggestKeywordsTemplate = `You are an SEO expert. Generate a list of keywords for the following blog post content:

{{.blogContent}}

Return the keywords as a JSON array of strings, wrapped in an object of the form {"keywords": ["first keyword", "second keyword"]}.`

// NewLanguageModel builds the text generation client selected by settings
func NewLanguageModel(ctx context.Context, settings config.LLMSettings) (llms.Model, error) {
	switch settings.Provider {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(settings.APIKey),
			openai.WithModel(settings.Model),
		}
		if settings.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(settings.BaseURL))
		}
		return openai.New(opts...)
	case "googleai", "":
		return googleai.New(ctx,
			googleai.WithAPIKey(settings.APIKey),
			googleai.WithDefaultModel(settings.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", settings.Provider)
	}
}

// KeywordSuggester asks a language model for SEO keywords
type KeywordSuggester struct {
	llm    llms.Model
	prompt prompts.PromptTemplate
	logger zerolog.Logger
}

func NewKeywordSuggester(llm llms.Model) *KeywordSuggester {
	return &KeywordSuggester{
		llm:    llm,
		prompt: prompts.NewPromptTemplate(suggestKeywordsTemplate, []string{"blogContent"}),
		logger: log.With().Str("service", keywordsService).Logger(),
	}
}

// Suggest returns the keywords generated for blogContent. Repeated calls may
// return different keywords.
func (k *KeywordSuggester) Suggest(ctx context.Context, blogContent string) ([]string, error) {
	prompt, err := k.prompt.Format(map[string]any{"blogContent": blogContent})
	if err != nil {
		return nil, errs.NewUnexpectedError(keywordsService, err)
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, k.llm, prompt,
		llms.WithJSONMode(),
		llms.WithTemperature(0.4),
	)
	if err != nil {
		k.logger.Error().Err(err).Msg("keyword generation failed")
		if ctx.Err() != nil {
			return nil, errs.NewUnexpectedError(keywordsService, err)
		}
		return nil, errs.NewServiceError(keywordsService, 0, err.Error(), err)
	}

	keywords, err := ParseKeywords(completion)
	if err != nil {
		k.logger.Warn().Err(err).Str("completion", completion).Msg("keyword output did not match schema")
		return nil, err
	}
	return keywords, nil
}

// ParseKeywords validates a model reply against {"keywords": string[]}.
// Markdown code fences around the JSON are tolerated and unknown fields are ignored.
func ParseKeywords(completion string) ([]string, error) {
	raw := strings.TrimSpace(completion)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, errs.NewMalformedResponseError(keywordsService, fmt.Errorf("no JSON object in output"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return nil, errs.NewMalformedResponseError(keywordsService, err)
	}

	rawKeywords, ok := fields["keywords"]
	if !ok || strings.TrimSpace(string(rawKeywords)) == "null" {
		return nil, errs.NewMalformedResponseError(keywordsService, fmt.Errorf("keywords is required"))
	}

	var keywords []string
	if err := json.Unmarshal(rawKeywords, &keywords); err != nil {
		return nil, errs.NewMalformedResponseError(keywordsService, fmt.Errorf("keywords must be an array of strings: %w", err))
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}
