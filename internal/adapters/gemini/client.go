// Package gemini talks to the Google generative-language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/studypal/core/internal/infrastructure/config"
	"github.com/studypal/core/internal/ports"
)

const (
	breakdownPrompt = "أنا طالب وأحتاج للمساعدة في تقسيم مهمة دراسية إلى خطوات صغيرة قابلة للتنفيذ.\n" +
		"المهمة: \"%s\"\n" +
		"المادة: \"%s\"\n\n" +
		"قم بإنشاء خطة دراسية مصغرة لهذه المهمة تحتوي على خطوات واضحة ومدة تقديرية.\n" +
		"قم بالرد بصيغة JSON فقط."

	motivationPrompt = "أعطني نصيحة دراسية قصيرة وملهمة جداً لطالب لديه %d مهام متبقية اليوم. " +
		"اجعلها جملة واحدة مشجعة باللغة العربية."

	// emptyMotivation is returned when the model answers with no text
	// at all; an empty reply is not a failure.
	emptyMotivation = "استمر في الإبداع، يومك سيكون مثمراً!"
)

// ErrDisabled is returned by the disabled client; callers degrade to
// their fallback content as with any other failure.
var ErrDisabled = errors.New("gemini is disabled")

// Client calls the generateContent endpoint of the configured model.
type Client struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewClient creates a Gemini client from configuration.
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}
}

// GenerateBreakdown asks the model for a structured study plan. The
// response schema pins the shape; a reply missing any required field is
// an error, which the caller turns into fallback content.
func (c *Client) GenerateBreakdown(ctx context.Context, taskTitle, courseName string) (ports.Breakdown, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(breakdownPrompt, taskTitle, courseName)}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema: &schema{
				Type: "OBJECT",
				Properties: map[string]*schema{
					"motivation": {
						Type:        "STRING",
						Description: "رسالة تحفيزية قصيرة للطالب",
					},
					"steps": {
						Type:        "ARRAY",
						Items:       &schema{Type: "STRING"},
						Description: "قائمة بخطوات تنفيذ المهمة",
					},
					"estimatedTime": {
						Type:        "STRING",
						Description: "الوقت المقدر للإنجاز",
					},
				},
				Required: []string{"motivation", "steps", "estimatedTime"},
			},
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return ports.Breakdown{}, err
	}

	var breakdown ports.Breakdown
	if err := json.Unmarshal([]byte(text), &breakdown); err != nil {
		return ports.Breakdown{}, fmt.Errorf("malformed breakdown payload: %w", err)
	}
	if breakdown.Motivation == "" || len(breakdown.Steps) == 0 || breakdown.EstimatedTime == "" {
		return ports.Breakdown{}, fmt.Errorf("breakdown payload missing required fields")
	}

	return breakdown, nil
}

// GenerateMotivation asks the model for a one-line encouragement.
func (c *Client) GenerateMotivation(ctx context.Context, pendingCount int) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(motivationPrompt, pendingCount)}}}},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return emptyMotivation, nil
	}
	return text, nil
}

// generate posts the request and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("gemini error: %s", errResp.Error.Message)
		}
		return "", fmt.Errorf("gemini error: HTTP %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("invalid response format from gemini: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response has no candidates")
	}

	var text strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

// Disabled is a client stand-in used when the collaborator is turned
// off; every call errors and the assistant serves fallback content.
type Disabled struct{}

// GenerateBreakdown always fails with ErrDisabled.
func (Disabled) GenerateBreakdown(context.Context, string, string) (ports.Breakdown, error) {
	return ports.Breakdown{}, ErrDisabled
}

// GenerateMotivation always fails with ErrDisabled.
func (Disabled) GenerateMotivation(context.Context, int) (string, error) {
	return "", ErrDisabled
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
