package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"insuria/pkg/domain"
)

// Phase is the assessment workflow state. Failures and resets always land
// back in PhaseUpload; PhaseResults is left only by confirm or reset.
type Phase string

const (
	PhaseUpload   Phase = "upload"
	PhaseScanning Phase = "scanning"
	PhaseResults  Phase = "results"
)

const (
	defaultVehicle  = "Toyota Camry 2018"
	defaultIncident = "Accidental Damage"
)

// assessment is one session's workflow instance.
type assessment struct {
	mu     sync.Mutex
	phase  Phase
	image  string // data URL of the photo under analysis
	report *domain.DamageReport
}

func (a *App) assessmentFor(sessionID string) *assessment {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()
	inst, ok := a.assessments[sessionID]
	if !ok {
		inst = &assessment{phase: PhaseUpload}
		a.assessments[sessionID] = inst
	}
	return inst
}

// AssessmentPhase reports the session's current workflow phase.
func (a *App) AssessmentPhase(sessionID string) Phase {
	inst := a.assessmentFor(sessionID)
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.phase
}

// AssessmentReport returns the pending report while in the results phase.
func (a *App) AssessmentReport(sessionID string) (domain.DamageReport, bool) {
	inst := a.assessmentFor(sessionID)
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.phase != PhaseResults || inst.report == nil {
		return domain.DamageReport{}, false
	}
	return *inst.report, true
}

// SubmitDamagePhoto runs upload → scanning → results. Non-image uploads
// are rejected outright and a submission during an active scan errors
// instead of racing it. Any analysis failure clears the photo and returns
// the workflow to upload.
func (a *App) SubmitDamagePhoto(ctx context.Context, sessionID string, image []byte, mediaType string) (domain.DamageReport, error) {
	if !strings.HasPrefix(mediaType, "image/") {
		return domain.DamageReport{}, ErrNotImage
	}
	if len(image) == 0 {
		return domain.DamageReport{}, ErrNotImage
	}
	inst := a.assessmentFor(sessionID)

	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(image)
	inst.mu.Lock()
	if inst.phase == PhaseScanning {
		inst.mu.Unlock()
		return domain.DamageReport{}, ErrAnalysisInProgress
	}
	inst.phase = PhaseScanning
	inst.image = dataURL
	inst.report = nil
	inst.mu.Unlock()

	report, err := a.analyzer.AnalyzeDamage(ctx, dataURL)

	inst.mu.Lock()
	defer inst.mu.Unlock()
	if err != nil {
		inst.phase = PhaseUpload
		inst.image = ""
		return domain.DamageReport{}, fmt.Errorf("analyze damage: %w", err)
	}
	inst.phase = PhaseResults
	inst.report = &report

	a.retainAssessmentPhoto(ctx, image, mediaType)
	return report, nil
}

// retainAssessmentPhoto keeps the analyzed photo for later claim
// verification. Best effort; the workflow never fails on it.
func (a *App) retainAssessmentPhoto(ctx context.Context, image []byte, mediaType string) {
	if a.objects == nil {
		return
	}
	key := "assessments/" + uuid.NewString()
	if err := a.objects.Put(ctx, key, bytes.NewReader(image), int64(len(image)), mediaType); err != nil {
		slog.Warn("retain assessment photo failed", "err", err)
	}
}

// ConfirmAssessment turns the pending report into a ledger entry and
// resets the workflow. Exactly one claim is created per confirm; the
// report's parts are carried over verbatim.
func (a *App) ConfirmAssessment(sessionID string) (domain.Claim, error) {
	inst := a.assessmentFor(sessionID)
	inst.mu.Lock()
	if inst.phase != PhaseResults || inst.report == nil {
		inst.mu.Unlock()
		return domain.Claim{}, ErrNoReport
	}
	report := *inst.report
	inst.phase = PhaseUpload
	inst.image = ""
	inst.report = nil
	inst.mu.Unlock()

	incident := report.RiskTitle
	if strings.TrimSpace(incident) == "" {
		incident = defaultIncident
	}
	return a.AddClaim(ClaimInput{
		Vehicle:  defaultVehicle,
		Incident: incident,
		Estimate: report.TotalEstimate,
		Parts:    report.Parts,
	})
}

// ResetAssessment discards the photo and report from any phase.
func (a *App) ResetAssessment(sessionID string) {
	inst := a.assessmentFor(sessionID)
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.phase = PhaseUpload
	inst.image = ""
	inst.report = nil
}
