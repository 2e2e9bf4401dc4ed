package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"insuria/pkg/domain"
	"insuria/pkg/storage"
)

func TestTypeTag(t *testing.T) {
	cases := []struct {
		mediaType string
		want      string
	}{
		{"application/pdf", "PDF"},
		{"image/jpeg", "JPEG"},
		{"application/octet-stream", "OCTET-STREAM"},
		{"text/plain", "PLAIN"},
		{"text", "FILE"},
		{"text/", "FILE"},
		{"", "FILE"},
	}
	for _, tc := range cases {
		if got := typeTag(tc.mediaType); got != tc.want {
			t.Errorf("typeTag(%q) = %q, want %q", tc.mediaType, got, tc.want)
		}
	}
}

func TestAddDocumentRetainsBytes(t *testing.T) {
	objects := storage.NewMemoryStore()
	a, _, _ := newTestApp(t, func(cfg *Config) { cfg.Objects = objects })

	doc, err := a.AddDocument(context.Background(), Upload{
		Name:      "Motor Policy.pdf",
		MediaType: "application/pdf",
		Data:      []byte("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if doc.Type != "PDF" {
		t.Errorf("Type = %q, want PDF", doc.Type)
	}
	if doc.Date != "Feb 14, 2026" {
		t.Errorf("Date = %q, want Feb 14, 2026", doc.Date)
	}
	if doc.Status != domain.DocumentPending {
		t.Errorf("Status = %q, want pending", doc.Status)
	}
	if objects.Len() != 1 {
		t.Fatalf("object store holds %d objects, want 1", objects.Len())
	}

	url, err := a.DocumentDownloadURL(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("DocumentDownloadURL: %v", err)
	}
	if !strings.HasSuffix(url, documentKey(doc.ID)) {
		t.Errorf("download url %q does not name the document key", url)
	}
}

func TestDocumentsMostRecentFirst(t *testing.T) {
	a, _, _ := newTestApp(t)

	names := []string{"license.jpg", "registration.pdf", "certificate.pdf"}
	for _, name := range names {
		if _, err := a.AddDocument(context.Background(), Upload{Name: name, MediaType: "application/pdf"}); err != nil {
			t.Fatalf("AddDocument(%s): %v", name, err)
		}
	}

	docs := a.Documents()
	if len(docs) != len(names) {
		t.Fatalf("got %d documents, want %d", len(docs), len(names))
	}
	if docs[0].Name != "certificate.pdf" {
		t.Errorf("docs[0].Name = %q, want the latest upload first", docs[0].Name)
	}
}

func TestExportDocument(t *testing.T) {
	a, _, _ := newTestApp(t)

	doc, err := a.AddDocument(context.Background(), Upload{Name: "Motor Policy 2026.pdf", MediaType: "application/pdf"})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	filename, content, err := a.ExportDocument(doc.ID)
	if err != nil {
		t.Fatalf("ExportDocument: %v", err)
	}
	if filename != "Motor_Policy_2026.pdf.txt" {
		t.Errorf("filename = %q", filename)
	}
	want := "This is a placeholder content for Motor Policy 2026.pdf.\nType: PDF\nUploaded: Feb 14, 2026\nStatus: pending"
	if content != want {
		t.Errorf("content = %q, want %q", content, want)
	}

	if _, _, err := a.ExportDocument(999); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("ExportDocument(unknown) = %v, want ErrDocumentNotFound", err)
	}
}

func TestDocumentDownloadURLWithoutObjectStore(t *testing.T) {
	a, _, _ := newTestApp(t)

	doc, err := a.AddDocument(context.Background(), Upload{Name: "license.jpg", MediaType: "image/jpeg"})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if _, err := a.DocumentDownloadURL(context.Background(), doc.ID); !errors.Is(err, ErrNoObjectStore) {
		t.Errorf("DocumentDownloadURL = %v, want ErrNoObjectStore", err)
	}
}
