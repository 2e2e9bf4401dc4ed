package app

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const session = "sess-1"

func TestDamageWorkflow(t *testing.T) {
	a, _, an := newTestApp(t)

	if got := a.AssessmentPhase(session); got != PhaseUpload {
		t.Fatalf("initial phase = %q, want upload", got)
	}

	report, err := a.SubmitDamagePhoto(context.Background(), session, []byte("jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("SubmitDamagePhoto: %v", err)
	}
	if report.RiskTitle != "Front Bumper Collision" {
		t.Errorf("RiskTitle = %q", report.RiskTitle)
	}
	if got := a.AssessmentPhase(session); got != PhaseResults {
		t.Fatalf("phase after analysis = %q, want results", got)
	}
	if len(an.images) != 1 || !strings.HasPrefix(an.images[0], "data:image/jpeg;base64,") {
		t.Fatalf("analyzer received %v, want one jpeg data url", an.images)
	}

	claim, err := a.ConfirmAssessment(session)
	if err != nil {
		t.Fatalf("ConfirmAssessment: %v", err)
	}
	if claim.Vehicle != defaultVehicle {
		t.Errorf("Vehicle = %q, want %q", claim.Vehicle, defaultVehicle)
	}
	if claim.Incident != "Front Bumper Collision" {
		t.Errorf("Incident = %q", claim.Incident)
	}
	if claim.Estimate != "₦125,000" {
		t.Errorf("Estimate = %q", claim.Estimate)
	}
	if len(claim.Parts) != 2 || claim.Parts[1].Name != "Headlight Assembly" {
		t.Errorf("Parts not carried over: %+v", claim.Parts)
	}

	if got := a.AssessmentPhase(session); got != PhaseUpload {
		t.Errorf("phase after confirm = %q, want upload", got)
	}
	if got := a.Claims(); len(got) != 1 {
		t.Errorf("ledger has %d claims after one confirm, want 1", len(got))
	}
}

func TestSubmitRejectsNonImage(t *testing.T) {
	a, _, an := newTestApp(t)

	if _, err := a.SubmitDamagePhoto(context.Background(), session, []byte("%PDF"), "application/pdf"); !errors.Is(err, ErrNotImage) {
		t.Fatalf("pdf submit = %v, want ErrNotImage", err)
	}
	if _, err := a.SubmitDamagePhoto(context.Background(), session, nil, "image/png"); !errors.Is(err, ErrNotImage) {
		t.Fatalf("empty submit = %v, want ErrNotImage", err)
	}
	if got := a.AssessmentPhase(session); got != PhaseUpload {
		t.Errorf("phase = %q, want upload", got)
	}
	if an.calls() != 0 {
		t.Errorf("analyzer called %d times for rejected uploads", an.calls())
	}
}

func TestSubmitAnalyzerFailureReturnsToUpload(t *testing.T) {
	a, _, an := newTestApp(t)
	an.err = errors.New("model unavailable")

	if _, err := a.SubmitDamagePhoto(context.Background(), session, []byte("jpeg"), "image/jpeg"); err == nil {
		t.Fatal("submit succeeded despite analyzer failure")
	}
	if got := a.AssessmentPhase(session); got != PhaseUpload {
		t.Errorf("phase = %q, want upload", got)
	}
	if _, ok := a.AssessmentReport(session); ok {
		t.Error("report present after failed analysis")
	}
	if got := a.Claims(); len(got) != 0 {
		t.Errorf("ledger gained %d claims from a failed analysis", len(got))
	}
}

func TestSubmitWhileScanning(t *testing.T) {
	a, _, an := newTestApp(t)
	an.started = make(chan struct{})
	an.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := a.SubmitDamagePhoto(context.Background(), session, []byte("first"), "image/jpeg")
		done <- err
	}()
	<-an.started

	if _, err := a.SubmitDamagePhoto(context.Background(), session, []byte("second"), "image/jpeg"); !errors.Is(err, ErrAnalysisInProgress) {
		t.Errorf("concurrent submit = %v, want ErrAnalysisInProgress", err)
	}

	close(an.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if got := a.AssessmentPhase(session); got != PhaseResults {
		t.Errorf("phase = %q, want results", got)
	}
}

func TestConfirmWithoutReport(t *testing.T) {
	a, _, _ := newTestApp(t)

	if _, err := a.ConfirmAssessment(session); !errors.Is(err, ErrNoReport) {
		t.Fatalf("ConfirmAssessment = %v, want ErrNoReport", err)
	}
}

func TestResetAssessment(t *testing.T) {
	a, _, _ := newTestApp(t)

	if _, err := a.SubmitDamagePhoto(context.Background(), session, []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("SubmitDamagePhoto: %v", err)
	}
	a.ResetAssessment(session)

	if got := a.AssessmentPhase(session); got != PhaseUpload {
		t.Errorf("phase = %q, want upload", got)
	}
	if _, err := a.ConfirmAssessment(session); !errors.Is(err, ErrNoReport) {
		t.Errorf("confirm after reset = %v, want ErrNoReport", err)
	}
}

func TestAssessmentsIsolatedPerSession(t *testing.T) {
	a, _, _ := newTestApp(t)

	if _, err := a.SubmitDamagePhoto(context.Background(), "sess-a", []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatalf("SubmitDamagePhoto: %v", err)
	}
	if got := a.AssessmentPhase("sess-b"); got != PhaseUpload {
		t.Errorf("other session phase = %q, want upload", got)
	}
}
