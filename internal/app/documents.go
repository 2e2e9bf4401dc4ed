package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"insuria/pkg/domain"
)

// Upload describes an incoming vault file.
type Upload struct {
	Name      string
	MediaType string
	Data      []byte
}

// AddDocument records vault metadata for an upload and retains the bytes
// in object storage when retention is configured. The type tag is the
// uppercased media-type subtype, "FILE" when there is none; user uploads
// always start pending.
func (a *App) AddDocument(ctx context.Context, upload Upload) (domain.Document, error) {
	a.mu.Lock()
	doc := domain.Document{
		ID:     a.nextRecordID(),
		Name:   upload.Name,
		Type:   typeTag(upload.MediaType),
		Date:   a.now().Format("Jan 02, 2006"),
		Status: domain.DocumentPending,
	}

	next := make([]domain.Document, 0, len(a.documents)+1)
	next = append(next, doc)
	next = append(next, a.documents...)
	if err := a.store.ReplaceDocuments(next); err != nil {
		a.mu.Unlock()
		return domain.Document{}, fmt.Errorf("persist documents: %w", err)
	}
	a.documents = next
	a.mu.Unlock()

	if a.objects != nil && len(upload.Data) > 0 {
		key := documentKey(doc.ID)
		err := a.objects.Put(ctx, key, bytes.NewReader(upload.Data), int64(len(upload.Data)), upload.MediaType)
		if err != nil {
			// Metadata is already committed; losing the original bytes
			// only disables the download path for this document.
			slog.Warn("retain document bytes failed", "document_id", doc.ID, "err", err)
		}
	}
	return doc, nil
}

// Documents returns the vault in insertion order, most recent first.
func (a *App) Documents() []domain.Document {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Document, len(a.documents))
	copy(out, a.documents)
	return out
}

// ExportDocument renders the synthetic plain-text summary for a document.
// It returns the suggested filename and the content.
func (a *App) ExportDocument(id int64) (string, string, error) {
	doc, ok := a.findDocument(id)
	if !ok {
		return "", "", ErrDocumentNotFound
	}
	content := fmt.Sprintf("This is a placeholder content for %s.\nType: %s\nUploaded: %s\nStatus: %s",
		doc.Name, doc.Type, doc.Date, doc.Status)
	filename := strings.ReplaceAll(doc.Name, " ", "_") + ".txt"
	return filename, content, nil
}

// DocumentDownloadURL returns a presigned URL for the retained original
// bytes. Seeded documents and uploads made without retention have none.
func (a *App) DocumentDownloadURL(ctx context.Context, id int64) (string, error) {
	if a.objects == nil {
		return "", ErrNoObjectStore
	}
	if _, ok := a.findDocument(id); !ok {
		return "", ErrDocumentNotFound
	}
	url, err := a.objects.PresignGet(ctx, documentKey(id), 15*time.Minute)
	if err != nil {
		return "", fmt.Errorf("presign document: %w", err)
	}
	return url, nil
}

func (a *App) findDocument(id int64) (domain.Document, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, doc := range a.documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return domain.Document{}, false
}

// typeTag derives the display tag from a media type: the subtype,
// uppercased, or "FILE" when the media type has no usable subtype.
func typeTag(mediaType string) string {
	_, subtype, found := strings.Cut(mediaType, "/")
	if !found || strings.TrimSpace(subtype) == "" {
		return "FILE"
	}
	return strings.ToUpper(subtype)
}

func documentKey(id int64) string {
	return fmt.Sprintf("documents/%d", id)
}
