// ABOUTME: Gemini client for plan generation, nutrition calculation, and library browsing.
// ABOUTME: Returns raw JSON bytes; validation is the caller's job.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/harperreed/nexusfit/internal/models"
)

// Default model names.
const (
	DefaultPlanModel = "gemini-2.5-pro"
	DefaultFastModel = "gemini-2.5-flash"
)

// ErrNoAPIKey is returned by New when no key is configured.
var ErrNoAPIKey = errors.New("no Gemini API key configured")

// ServiceError wraps any failure talking to the generation service.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// contentGenerator is the slice of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures a Client.
type Config struct {
	APIKey    string
	PlanModel string
	FastModel string
	Logger    *zap.Logger
}

// Client talks to the Gemini API.
type Client struct {
	models    contentGenerator
	planModel string
	fastModel string
	logger    *zap.Logger
}

// New creates a Gemini client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(gc.Models, cfg), nil
}

func newClient(gen contentGenerator, cfg Config) *Client {
	c := &Client{
		models:    gen,
		planModel: cfg.PlanModel,
		fastModel: cfg.FastModel,
		logger:    cfg.Logger,
	}
	if c.planModel == "" {
		c.planModel = DefaultPlanModel
	}
	if c.fastModel == "" {
		c.fastModel = DefaultFastModel
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// GeneratePlan asks the plan model for a full WeeklyPlan.
func (c *Client) GeneratePlan(ctx context.Context, profile *models.UserProfile) ([]byte, error) {
	if profile == nil {
		return nil, &ServiceError{Op: "generate plan", Err: errors.New("profile is nil")}
	}
	prompt, err := PlanPrompt(profile)
	if err != nil {
		return nil, &ServiceError{Op: "generate plan", Err: err}
	}
	return c.generate(ctx, "generate plan", c.planModel, prompt, PlanSchema())
}

// CalculateNutrition asks the fast model for one option's macros.
func (c *Client) CalculateNutrition(ctx context.Context, food, portion string, nc *NutritionContext) ([]byte, error) {
	return c.generate(ctx, "calculate nutrition", c.fastModel, NutritionPrompt(food, portion, nc), NutritionSchema())
}

// FetchLibrary asks the fast model for exercises in category. No schema is
// enforced for this call.
func (c *Client) FetchLibrary(ctx context.Context, category models.LibraryCategory) ([]byte, error) {
	return c.generate(ctx, "fetch library", c.fastModel, LibraryPrompt(category), nil)
}

func (c *Client) generate(ctx context.Context, op, model, prompt string, schema *genai.Schema) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		c.logger.Warn("generation request failed",
			zap.String("op", op), zap.String("model", model), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, &ServiceError{Op: op, Err: err}
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		return nil, &ServiceError{Op: op, Err: errors.New("empty response")}
	}

	c.logger.Debug("generation request done",
		zap.String("op", op), zap.String("model", model), zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(text)))
	return []byte(text), nil
}
