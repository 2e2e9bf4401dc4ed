package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"

	"insuria/pkg/domain"
)

// maxPolicyChars bounds the extracted text sent to the model so a long
// policy document never blows the prompt past the model's context.
const maxPolicyChars = 12000

const policySummaryPrompt = `You are Insuria AI, a professional but friendly insurance advisor for the broad African market.
The user has uploaded an insurance policy document. Summarize it into exactly 5 short bullet points, covering what is covered, what is excluded, the premium, the claims process, and renewal terms where the document states them.
Respond ONLY in the requested language: %s.`

// UploadPolicy stores the document in the vault and, when its text can be
// read, posts a 5-point summary into the advisor conversation. A document
// whose text cannot be extracted or summarized still lands in the vault.
func (a *App) UploadPolicy(ctx context.Context, sessionID string, upload Upload) (domain.Document, *domain.Turn, error) {
	doc, err := a.AddDocument(ctx, upload)
	if err != nil {
		return domain.Document{}, nil, err
	}

	text, err := extractPolicyText(upload)
	if err != nil {
		slog.Warn("policy text extraction failed", "document", doc.Name, "err", err)
		return doc, nil, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return doc, nil, nil
	}
	if len(text) > maxPolicyChars {
		text = text[:maxPolicyChars]
	}

	language := a.SessionLanguage(sessionID)
	summary, err := a.generator.GenerateText(ctx, fmt.Sprintf(policySummaryPrompt, language.Name), text)
	if err != nil {
		slog.Warn("policy summary failed", "document", doc.Name, "err", err)
		return doc, nil, nil
	}

	sess := a.advisorFor(sessionID)
	sess.mu.Lock()
	turn := sess.append(domain.Turn{Text: summary, Sender: domain.SenderAssistant, Lang: language.Code})
	sess.mu.Unlock()
	return doc, &turn, nil
}

func extractPolicyText(upload Upload) (string, error) {
	mediaType, _, _ := strings.Cut(upload.MediaType, ";")
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "application/pdf":
		return extractPDFText(upload.Data)
	case "text/html":
		return extractHTMLText(upload.Data)
	case "text/plain":
		return string(upload.Data), nil
	default:
		return "", fmt.Errorf("unsupported policy media type %q", upload.MediaType)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractHTMLText(data []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteByte('\n')
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return buf.String(), nil
}
