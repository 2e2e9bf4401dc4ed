package app

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUploadPolicyHTMLSummary(t *testing.T) {
	a, gen, _ := newTestApp(t)
	gen.reply = "1. Covers third-party motor damage.\n2. Excludes flood.\n3. Premium ₦15,000/mo.\n4. Claims within 30 days.\n5. Renews yearly."

	page := []byte(`<html><head><style>.x{color:red}</style></head><body>
		<h1>Motor Policy</h1><p>Covers third-party damage up to ₦1,000,000.</p>
		<script>alert("tracking")</script></body></html>`)

	doc, turn, err := a.UploadPolicy(context.Background(), session, Upload{
		Name:      "motor-policy.html",
		MediaType: "text/html",
		Data:      page,
	})
	if err != nil {
		t.Fatalf("UploadPolicy: %v", err)
	}
	if doc.Type != "HTML" {
		t.Errorf("document type = %q, want HTML", doc.Type)
	}
	if turn == nil {
		t.Fatal("no summary turn for a readable policy")
	}
	if turn.Text != gen.reply {
		t.Errorf("summary turn text = %q", turn.Text)
	}

	if !strings.Contains(gen.users[0], "Covers third-party damage") {
		t.Errorf("extracted text missing body copy: %q", gen.users[0])
	}
	if strings.Contains(gen.users[0], "alert") || strings.Contains(gen.users[0], "color:red") {
		t.Errorf("extracted text carries script or style content: %q", gen.users[0])
	}

	turns := a.Turns(session)
	if last := turns[len(turns)-1]; last.ID != turn.ID {
		t.Errorf("summary turn not appended to the conversation")
	}
}

func TestUploadPolicyPlainText(t *testing.T) {
	a, gen, _ := newTestApp(t)

	_, turn, err := a.UploadPolicy(context.Background(), session, Upload{
		Name:      "policy.txt",
		MediaType: "text/plain; charset=utf-8",
		Data:      []byte("Comprehensive motor cover. Premium 15000 naira monthly."),
	})
	if err != nil {
		t.Fatalf("UploadPolicy: %v", err)
	}
	if turn == nil {
		t.Fatal("no summary turn for plain text")
	}
	if gen.users[0] != "Comprehensive motor cover. Premium 15000 naira monthly." {
		t.Errorf("model received %q", gen.users[0])
	}
}

func TestUploadPolicyUnsupportedTypeStillStoresDocument(t *testing.T) {
	a, gen, _ := newTestApp(t)

	doc, turn, err := a.UploadPolicy(context.Background(), session, Upload{
		Name:      "photo-of-policy.png",
		MediaType: "image/png",
		Data:      []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if err != nil {
		t.Fatalf("UploadPolicy: %v", err)
	}
	if turn != nil {
		t.Errorf("got a summary turn for an unreadable upload: %+v", turn)
	}
	if gen.calls() != 0 {
		t.Errorf("generator called %d times for an unreadable upload", gen.calls())
	}
	if docs := a.Documents(); len(docs) != 1 || docs[0].ID != doc.ID {
		t.Errorf("document not stored: %+v", docs)
	}
}

func TestUploadPolicySummaryFailureDegrades(t *testing.T) {
	a, gen, _ := newTestApp(t)
	gen.err = errors.New("model unavailable")

	_, turn, err := a.UploadPolicy(context.Background(), session, Upload{
		Name:      "policy.txt",
		MediaType: "text/plain",
		Data:      []byte("Comprehensive motor cover."),
	})
	if err != nil {
		t.Fatalf("UploadPolicy: %v", err)
	}
	if turn != nil {
		t.Errorf("got a summary turn despite generation failure: %+v", turn)
	}
	if docs := a.Documents(); len(docs) != 1 {
		t.Errorf("vault has %d documents, want 1", len(docs))
	}
	if turns := a.Turns(session); len(turns) != 1 {
		t.Errorf("conversation gained turns from a failed summary: %d", len(turns))
	}
}
