package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"insuria/pkg/ai"
	"insuria/pkg/domain"
	"insuria/pkg/storage"
	"insuria/pkg/store"
	"insuria/pkg/voice"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DataDir     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	SessionTTL    time.Duration

	Store     store.RecordStore
	Sessions  store.SessionStore
	Objects   storage.ObjectStore
	Generator ai.TextGenerator
	Analyzer  ai.DamageAnalyzer
	Speaker   voice.Synthesizer
}

// App is the core application service. It owns the working copies of the
// claims ledger and the document vault (loaded once at startup, written
// back whole on every mutation) plus the per-session advisor and
// assessment state.
type App struct {
	store     store.RecordStore
	sessions  store.SessionStore
	objects   storage.ObjectStore
	generator ai.TextGenerator
	analyzer  ai.DamageAnalyzer
	speaker   voice.Synthesizer

	mu        sync.RWMutex
	claims    []domain.Claim
	documents []domain.Document
	lastID    int64

	sessMu      sync.Mutex
	advisors    map[string]*advisorSession
	assessments map[string]*assessment

	now     func() time.Time
	randInt func(n int) int
}

// New constructs the application and loads both collections from the
// record store. A load failure is fatal: serving from a half-read ledger
// would silently drop records on the next write-back.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		var err error
		switch {
		case cfg.DatabaseURL != "":
			dataStore, err = store.NewGormStore(cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("init postgres store: %w", err)
			}
		case cfg.DataDir != "":
			dataStore, err = store.NewFileStore(cfg.DataDir)
			if err != nil {
				return nil, fmt.Errorf("init file store: %w", err)
			}
		default:
			return nil, fmt.Errorf("record store required (databaseURL or dataDir)")
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		ttl := cfg.SessionTTL
		if ttl == 0 {
			ttl = 24 * time.Hour
		}
		var err error
		switch {
		case cfg.RedisAddr != "":
			sessionStore = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, ttl)
		case cfg.JWTSecret != "":
			sessionStore, err = store.NewJWTSessionStore(cfg.JWTSecret, ttl)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("session store required (redisAddr or jwtSecret)")
		}
	}

	claims, err := dataStore.ListClaims()
	if err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}
	documents, err := dataStore.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	a := &App{
		store:       dataStore,
		sessions:    sessionStore,
		objects:     cfg.Objects,
		generator:   cfg.Generator,
		analyzer:    cfg.Analyzer,
		speaker:     cfg.Speaker,
		claims:      claims,
		documents:   documents,
		advisors:    make(map[string]*advisorSession),
		assessments: make(map[string]*assessment),
		now:         time.Now,
		randInt:     rand.Intn,
	}
	for _, claim := range claims {
		if claim.ID > a.lastID {
			a.lastID = claim.ID
		}
	}
	for _, doc := range documents {
		if doc.ID > a.lastID {
			a.lastID = doc.ID
		}
	}
	return a, nil
}

// Login issues a session token. There is no credential check behind the
// gate: the token's existence is the whole signed-in state.
func (a *App) Login() (string, error) {
	return a.sessions.NewSession()
}

// Logout revokes the token and discards any advisor or assessment state
// bound to it.
func (a *App) Logout(token string) error {
	a.sessMu.Lock()
	delete(a.advisors, token)
	delete(a.assessments, token)
	a.sessMu.Unlock()
	return a.sessions.Delete(token)
}

// ValidSession reports whether the token is a live session.
func (a *App) ValidSession(token string) (bool, error) {
	return a.sessions.Valid(token)
}

// nextRecordID returns a creation-time id. Two records created in the
// same millisecond still get distinct, increasing ids.
func (a *App) nextRecordID() int64 {
	id := a.now().UnixMilli()
	if id <= a.lastID {
		id = a.lastID + 1
	}
	a.lastID = id
	return id
}
