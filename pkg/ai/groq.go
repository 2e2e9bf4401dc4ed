package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"insuria/pkg/domain"
)

// ErrEmptyResponse indicates the API answered but produced no usable
// content. Callers may substitute a gentler fallback than for transport
// failures.
var ErrEmptyResponse = errors.New("empty response from groq")

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"

	// Model choices follow the product defaults; both are overridable
	// through the constructor for tests and config.
	DefaultChatModel   = "llama-3.3-70b-versatile"
	DefaultVisionModel = "llama-3.2-90b-vision-preview"
)

const visionPrompt = `Analyze this image for vehicle damage.
Provide a repair estimate relevant to the African market (in Naira).

Return ONLY a raw JSON object (no markdown formatting) with this exact structure:
{
    "risk_title": "Short title of the risk (e.g. Structural Risk Detected)",
    "risk_description": "2 sentence description of the damage and safety implication.",
    "parts": [
        {"name": "Part Name", "cost": "Estimated Cost (e.g. ₦45,000)"},
        ... (list 3-4 major parts)
    ],
    "total_estimate": "Total Cost (e.g. ₦250,000)",
    "repairability": "High/Medium/Low"
}`

// GroqClient calls the Groq OpenAI-compatible chat completions API for both
// text generation and vision analysis.
type GroqClient struct {
	baseURL     string
	apiKey      string
	chatModel   string
	visionModel string
	httpClient  *http.Client
}

// NewGroqClient constructs a client. baseURL and models fall back to the
// product defaults when empty; the API key is required.
func NewGroqClient(baseURL, apiKey, chatModel, visionModel string) (*GroqClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	if strings.TrimSpace(chatModel) == "" {
		chatModel = DefaultChatModel
	}
	if strings.TrimSpace(visionModel) == "" {
		visionModel = DefaultVisionModel
	}
	return &GroqClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		chatModel:   chatModel,
		visionModel: visionModel,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// GenerateText implements TextGenerator using the chat completions API.
func (c *GroqClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	var resp chatResponse
	if err := c.doJSON(ctx, chatRequest{Model: c.chatModel, Messages: messages}, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// AnalyzeDamage implements DamageAnalyzer. The image is sent inline as a
// data URL alongside the fixed instruction prompt; the response must parse
// into a complete DamageReport or the call fails.
func (c *GroqClient) AnalyzeDamage(ctx context.Context, imageDataURL string) (domain.DamageReport, error) {
	if strings.TrimSpace(imageDataURL) == "" {
		return domain.DamageReport{}, fmt.Errorf("image required")
	}
	temperature := 0.1
	req := chatRequest{
		Model: c.visionModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: visionPrompt},
					{Type: "image_url", ImageURL: &imageRef{URL: imageDataURL}},
				},
			},
		},
		Temperature: &temperature,
		MaxTokens:   1024,
	}
	var resp chatResponse
	if err := c.doJSON(ctx, req, &resp); err != nil {
		return domain.DamageReport{}, err
	}
	if len(resp.Choices) == 0 {
		return domain.DamageReport{}, ErrEmptyResponse
	}
	return parseDamageReport(resp.Choices[0].Message.Content)
}

func (c *GroqClient) doJSON(ctx context.Context, payload chatRequest, out *chatResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("groq api error: %s", errResp.Error.Message)
		}
		return fmt.Errorf("groq api error: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("groq decode: %w", err)
	}
	return nil
}

// OpenAI-compatible request/response types. Content is either a plain
// string (text chat) or a part list (vision).

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
