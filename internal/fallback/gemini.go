package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 10 * time.Second
)

var errEmptyResponse = errors.New("empty response from model")

// contentGenerator is the part of genai.Models the delegate needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Gemini asks Google's Gemini models for a reply, one attempt per call
type Gemini struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// New selects the delegate variant once at startup: without an API key, or when the client
// cannot be created, the Unavailable variant is returned.
func New(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) Delegate {
	if cfg.APIKey == "" {
		logger.Info("gemini api key not set, using canned replies for unknown input")
		return Unavailable{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Warn("gemini unavailable, using canned replies for unknown input", zap.Error(err))
		return Unavailable{}
	}

	return newGemini(client.Models, cfg, logger)
}

func newGemini(models contentGenerator, cfg GeminiConfig, logger *zap.Logger) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Gemini{
		models:  models,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (g *Gemini) Status() string {
	return "ready"
}

func (g *Gemini) Reply(ctx context.Context, utterance string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: gemini panicked: %v", ErrUnavailable, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(Prompt(utterance)), nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: gemini generate: %w", ErrUnavailable, ctxErr)
		}
		return "", fmt.Errorf("%w: gemini generate: %w", ErrUnavailable, err)
	}

	text = strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, errEmptyResponse)
	}

	g.logger.Debug("gemini reply",
		zap.String("model", g.model),
		zap.Duration("latency", time.Since(start)))
	return text, nil
}
