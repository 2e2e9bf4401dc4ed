// Package voice turns advisor responses into speech. The native provider
// renders audio with Nigerian voices; when it is unavailable the speaker
// degrades to a directive the client plays through the browser speech API.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultVoiceBaseURL = "https://api.amebogpt.com.ng/v1"

// nativeVoices maps language display names to provider voice identifiers.
var nativeVoices = map[string]string{
	"English": "ezinne-female",
	"Pidgin":  "pidgin-male",
	"Yoruba":  "olu-male",
	"Hausa":   "musa-male",
	"Igbo":    "chidi-male",
}

// browserLocales maps language display names to browser speech locales.
var browserLocales = map[string]string{
	"English": "en-NG",
	"Pidgin":  "en-NG",
	"Yoruba":  "yo-NG",
	"Hausa":   "ha-NG",
	"Igbo":    "ig-NG",
}

// Speech is the outcome of a Speak call: a playable audio URL from the
// native provider, or a browser directive when the provider cannot serve.
type Speech struct {
	AudioURL  string     `json:"audioUrl,omitempty"`
	Directive *Directive `json:"directive,omitempty"`
}

// Directive instructs the client to synthesize locally.
type Directive struct {
	Text   string  `json:"text"`
	Locale string  `json:"locale"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
}

// Synthesizer converts text in a given language to speech.
type Synthesizer interface {
	Speak(ctx context.Context, text, language string) (Speech, error)
}

// NativeClient calls the hosted TTS API.
type NativeClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewNativeClient builds a provider client. An empty API key is allowed;
// Configured reports whether requests can be made at all.
func NewNativeClient(baseURL, apiKey string) *NativeClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultVoiceBaseURL
	}
	return &NativeClient{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether a credential is present.
func (c *NativeClient) Configured() bool {
	return c.apiKey != ""
}

// Speak requests rendered audio for the text in the given language's voice.
func (c *NativeClient) Speak(ctx context.Context, text, language string) (Speech, error) {
	if !c.Configured() {
		return Speech{}, fmt.Errorf("voice api key not configured")
	}
	voice, ok := nativeVoices[language]
	if !ok {
		voice = nativeVoices["English"]
	}
	body, err := json.Marshal(ttsRequest{Text: text, VoiceID: voice, Format: "mp3"})
	if err != nil {
		return Speech{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts", bytes.NewReader(body))
	if err != nil {
		return Speech{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Speech{}, fmt.Errorf("voice request: %w", err)
	}
	defer resp.Body.Close()

	var decoded ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Speech{}, fmt.Errorf("voice decode: %w", err)
	}
	if resp.StatusCode >= 400 {
		if decoded.Message != "" {
			return Speech{}, fmt.Errorf("voice api error: %s", decoded.Message)
		}
		return Speech{}, fmt.Errorf("voice api error: %s", resp.Status)
	}
	audioURL := decoded.AudioURL
	if audioURL == "" {
		audioURL = decoded.URL
	}
	if audioURL == "" {
		return Speech{}, fmt.Errorf("no audio url returned")
	}
	return Speech{AudioURL: audioURL}, nil
}

type ttsRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	Format  string `json:"format"`
}

type ttsResponse struct {
	AudioURL string `json:"audio_url"`
	URL      string `json:"url"`
	Message  string `json:"message"`
}

// Speaker prefers the native provider and falls back to a browser
// directive. With no credential configured the provider is never called.
type Speaker struct {
	native *NativeClient
}

// NewSpeaker wires the fallback chain around a native client.
func NewSpeaker(native *NativeClient) *Speaker {
	return &Speaker{native: native}
}

// Speak never fails: provider errors and missing credentials both resolve
// to the browser directive for the session language.
func (s *Speaker) Speak(ctx context.Context, text, language string) (Speech, error) {
	if s.native != nil && s.native.Configured() {
		speech, err := s.native.Speak(ctx, text, language)
		if err == nil {
			return speech, nil
		}
	}
	return BrowserDirective(text, language), nil
}

// BrowserDirective maps the language to a locale and returns the local
// synthesis instruction. Rate and pitch match the product's tuned values.
func BrowserDirective(text, language string) Speech {
	locale, ok := browserLocales[language]
	if !ok {
		locale = "en-NG"
	}
	return Speech{Directive: &Directive{
		Text:   text,
		Locale: locale,
		Rate:   0.85,
		Pitch:  1.0,
	}}
}
