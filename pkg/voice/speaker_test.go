package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestNativeClientRequestsConfiguredVoice(t *testing.T) {
	var got ttsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tts" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer voice-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"audio_url":"https://cdn.example/audio.mp3"}`))
	}))
	defer srv.Close()

	client := NewNativeClient(srv.URL, "voice-key")
	speech, err := client.Speak(context.Background(), "Wetin dey cover?", "Pidgin")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if speech.AudioURL != "https://cdn.example/audio.mp3" {
		t.Fatalf("unexpected audio url %q", speech.AudioURL)
	}
	if got.VoiceID != "pidgin-male" || got.Format != "mp3" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestNativeClientErrorsWithoutAudioURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewNativeClient(srv.URL, "voice-key")
	if _, err := client.Speak(context.Background(), "hello", "English"); err == nil {
		t.Fatalf("expected error for missing audio url")
	}
}

func TestSpeakerSkipsProviderWithoutCredential(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	speaker := NewSpeaker(NewNativeClient(srv.URL, ""))
	speech, err := speaker.Speak(context.Background(), "Bawo ni", "Yoruba")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("provider should not be called without a credential")
	}
	if speech.Directive == nil || speech.Directive.Locale != "yo-NG" {
		t.Fatalf("expected yo-NG browser directive, got %+v", speech)
	}
	if speech.Directive.Rate != 0.85 || speech.Directive.Pitch != 1.0 {
		t.Fatalf("unexpected directive tuning %+v", speech.Directive)
	}
}

func TestSpeakerFallsBackOnProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"voice engine down"}`))
	}))
	defer srv.Close()

	speaker := NewSpeaker(NewNativeClient(srv.URL, "voice-key"))
	speech, err := speaker.Speak(context.Background(), "How far", "Pidgin")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if speech.Directive == nil || speech.Directive.Locale != "en-NG" {
		t.Fatalf("expected en-NG fallback directive, got %+v", speech)
	}
}

func TestBrowserDirectiveUnknownLanguageDefaults(t *testing.T) {
	speech := BrowserDirective("hello", "French")
	if speech.Directive.Locale != "en-NG" {
		t.Fatalf("unknown language should default to en-NG, got %q", speech.Directive.Locale)
	}
}
