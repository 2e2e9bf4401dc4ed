package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"insuria/pkg/ai"
	"insuria/pkg/domain"
	"insuria/pkg/voice"
)

var advisorLanguages = []domain.Language{
	{Code: "en", Name: "English", Locale: "en-NG"},
	{Code: "pcm", Name: "Pidgin", Locale: "en-NG"},
	{Code: "yo", Name: "Yoruba", Locale: "yo-NG"},
	{Code: "ha", Name: "Hausa", Locale: "ha-NG"},
	{Code: "ig", Name: "Igbo", Locale: "ig-NG"},
}

const (
	greetingText = "Hello! I am your Insurance Sense Advisor. You fit upload your policy paper or ask me any question about insurance across Africa. How I fit help you today?"

	// Shown when the provider answers with no content and when the
	// request itself fails, respectively.
	emptyResponseFallback  = "I no fit process that request right now. Abeg try again later."
	connectionFailFallback = "Sorry, I'm having trouble connecting to my brain. Please check your internet or try again later."
)

const advisorSystemPrompt = `You are Insuria AI, a professional but friendly insurance advisor for the broad African market (Nigeria, Ghana, Kenya, South Africa, etc.).
Your goal is to help users understand their policies, prices, and claims.
Respond ONLY in the requested language: %s.

STRICT RULES:
- If language is 'English', you must use formal, Standard English. Do NOT use Pidgin or "broken" English.
- If language is 'Pidgin', you must use natural West African Pidgin English.
- If language is 'Yoruba', 'Hausa', or 'Igbo', use formal versions of those languages.

Be concise, helpful, and accurate. Mention relevant African insurance contexts (like NHIS in Nigeria, NHIF in Kenya, diverse motor insurance laws, etc.) when relevant.`

// advisorSession is one session's conversation. Turns only grow; the whole
// session is discarded on logout. sendMu serializes sends so responses
// append in send order; mu guards the state reads.
type advisorSession struct {
	sendMu sync.Mutex

	mu        sync.Mutex
	turns     []domain.Turn
	language  domain.Language
	composing bool
	nextID    int64
}

func (a *App) advisorFor(sessionID string) *advisorSession {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()
	sess, ok := a.advisors[sessionID]
	if !ok {
		sess = &advisorSession{
			language: advisorLanguages[1], // default Pidgin
			turns: []domain.Turn{
				{ID: 1, Text: greetingText, Sender: domain.SenderAssistant, Lang: "pcm"},
			},
			nextID: 1,
		}
		a.advisors[sessionID] = sess
	}
	return sess
}

// Languages lists the supported advisor languages.
func (a *App) Languages() []domain.Language {
	out := make([]domain.Language, len(advisorLanguages))
	copy(out, advisorLanguages)
	return out
}

// SelectLanguage switches the session language. Existing turns are never
// rewritten; only subsequent sends and speech are affected.
func (a *App) SelectLanguage(sessionID, code string) (domain.Language, error) {
	for _, lang := range advisorLanguages {
		if lang.Code == code {
			sess := a.advisorFor(sessionID)
			sess.mu.Lock()
			sess.language = lang
			sess.mu.Unlock()
			return lang, nil
		}
	}
	return domain.Language{}, ErrUnknownLanguage
}

// SessionLanguage returns the session's selected language.
func (a *App) SessionLanguage(sessionID string) domain.Language {
	sess := a.advisorFor(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.language
}

// Turns returns the conversation history in order.
func (a *App) Turns(sessionID string) []domain.Turn {
	sess := a.advisorFor(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]domain.Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// Composing reports whether a response is currently being generated.
func (a *App) Composing(sessionID string) bool {
	sess := a.advisorFor(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.composing
}

// SendMessage appends the user turn, asks the chat capability for a reply
// in the session language, and appends the assistant turn. Provider
// failures degrade to a built-in apology; the conversation always gains
// exactly two turns. Sends within a session run one at a time.
func (a *App) SendMessage(ctx context.Context, sessionID, text string) ([]domain.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	sess := a.advisorFor(sessionID)
	sess.sendMu.Lock()
	defer sess.sendMu.Unlock()

	sess.mu.Lock()
	userTurn := sess.append(domain.Turn{Text: text, Sender: domain.SenderUser})
	language := sess.language
	sess.composing = true
	sess.mu.Unlock()

	reply, err := a.generator.GenerateText(ctx, fmt.Sprintf(advisorSystemPrompt, language.Name), text)
	if err != nil {
		slog.Warn("advisor generate failed", "err", err)
		if errors.Is(err, ai.ErrEmptyResponse) {
			reply = emptyResponseFallback
		} else {
			reply = connectionFailFallback
		}
	}

	sess.mu.Lock()
	assistantTurn := sess.append(domain.Turn{Text: reply, Sender: domain.SenderAssistant, Lang: language.Code})
	sess.composing = false
	sess.mu.Unlock()

	return []domain.Turn{userTurn, assistantTurn}, nil
}

// Speak renders text in the session's language, falling back to a browser
// directive when the native voice cannot serve.
func (a *App) Speak(ctx context.Context, sessionID, text string) (voice.Speech, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return voice.Speech{}, ErrEmptyMessage
	}
	language := a.SessionLanguage(sessionID)
	return a.speaker.Speak(ctx, text, language.Name)
}

// append assigns the next turn id and records the turn. Caller holds mu.
func (s *advisorSession) append(turn domain.Turn) domain.Turn {
	s.nextID++
	turn.ID = s.nextID
	s.turns = append(s.turns, turn)
	return turn
}
