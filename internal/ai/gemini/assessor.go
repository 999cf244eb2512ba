package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/ai"
	"github.com/spigell/cupid-matcher/internal/profile"
	"github.com/spigell/cupid-matcher/internal/utils"
)

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
)

//go:embed prompt.md
var systemPrompt string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Assessor rates profile pairs with a Gemini model.
type Assessor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAssessor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Assessor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Assessor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Assessor) Provider() string {
	return providerName
}

// profilePayload is the part of a profile the model gets to see.
// Names and IDs are left out on purpose.
type profilePayload struct {
	Age         int                           `json:"age,omitempty"`
	Gender      profile.Gender                `json:"gender,omitempty"`
	Location    string                        `json:"location,omitempty"`
	Occupation  string                        `json:"occupation,omitempty"`
	Personality *profile.PsychologicalProfile `json:"personality"`
	Behavior    *profile.BehavioralInsights   `json:"behavior"`
	Goals       *profile.RelationshipGoals    `json:"goals"`
	Preferences *profile.Preferences          `json:"preferences"`
	Dealbreaker *profile.Dealbreakers         `json:"dealbreakers"`
}

type assessmentResponse struct {
	Overall      float64  `mapstructure:"overall"`
	Emotional    float64  `mapstructure:"emotional"`
	Intellectual float64  `mapstructure:"intellectual"`
	Lifestyle    float64  `mapstructure:"lifestyle"`
	Strengths    []string `mapstructure:"strengths"`
	Challenges   []string `mapstructure:"challenges"`
}

func (a *Assessor) Assess(ctx context.Context, requester, target *profile.Profile) (*ai.Assessment, error) {
	if a.generator == nil {
		return nil, errors.New("gemini generator is not configured")
	}
	if requester == nil || target == nil {
		return nil, errors.New("both profiles are required")
	}

	message, err := buildMessage(requester, target)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini assessment request",
		zap.String("requester_id", requester.ID),
		zap.String("target_id", target.ID),
		zap.String("ai_model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini assessment response",
		zap.String("requester_id", requester.ID),
		zap.String("target_id", target.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildMessage(requester, target *profile.Profile) (string, error) {
	payload := map[string]profilePayload{
		"profile1": newPayload(requester),
		"profile2": newPayload(target),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profiles payload: %w", err)
	}

	return "Profiles:\n" + string(data) + "\n\nJSON Response:", nil
}

func newPayload(p *profile.Profile) profilePayload {
	payload := profilePayload{
		Personality: p.PsychologicalProfile,
		Behavior:    p.BehavioralInsights,
		Goals:       p.RelationshipGoals,
		Preferences: p.Preferences,
		Dealbreaker: p.Dealbreakers,
	}
	if info := p.PersonalInfo; info != nil {
		payload.Age = info.Age
		payload.Gender = info.Gender
		payload.Location = info.Location
		payload.Occupation = info.Occupation
	}
	return payload
}

// parseResponse decodes the model answer. Missing fields default to zero
// values; numbers sent as strings are accepted.
func parseResponse(raw string) (*ai.Assessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var resp assessmentResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("create response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	return &ai.Assessment{
		Overall:      resp.Overall,
		Emotional:    resp.Emotional,
		Intellectual: resp.Intellectual,
		Lifestyle:    resp.Lifestyle,
		Strengths:    trimAll(resp.Strengths),
		Challenges:   trimAll(resp.Challenges),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
