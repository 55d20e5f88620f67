package knowledge

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// TextEntry is a named free-text knowledge entry.
type TextEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LinkEntry is a named URL to fetch and ingest.
type LinkEntry struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Ingestor turns raw entries and uploads into Documents ready for the store.
type Ingestor struct {
	client *http.Client
	logger *zap.Logger
}

func NewIngestor(logger *zap.Logger) *Ingestor {
	return &Ingestor{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// ProcessTextEntries validates and converts text entries, rejecting duplicate
// names or values with an aggregated error.
func (ing *Ingestor) ProcessTextEntries(entries []TextEntry) ([]Document, error) {
	seenNames := map[string]bool{}
	seenValues := map[string]bool{}
	var dupNames, dupValues []string
	var docs []Document

	for _, entry := range entries {
		if entry.Name == "" || entry.Value == "" {
			return nil, fmt.Errorf("each text entry must have a name and value")
		}
		if seenNames[entry.Name] {
			dupNames = append(dupNames, entry.Name)
		}
		seenNames[entry.Name] = true
		if seenValues[entry.Value] {
			dupValues = append(dupValues, entry.Value)
		}
		seenValues[entry.Value] = true

		docs = append(docs, Document{Name: entry.Name, SourceType: "text", Content: entry.Value})
	}

	if err := duplicateError(dupNames, dupValues, "values"); err != nil {
		return nil, err
	}
	return docs, nil
}

// ProcessLinkEntries validates link entries and fetches each page, stripping
// script/style noise down to readable text. Fetch failures are logged and
// skipped rather than failing the batch.
func (ing *Ingestor) ProcessLinkEntries(entries []LinkEntry) ([]Document, error) {
	seenNames := map[string]bool{}
	seenLinks := map[string]bool{}
	var dupNames, dupLinks []string
	var docs []Document

	for _, entry := range entries {
		if entry.Name == "" || entry.Link == "" {
			return nil, fmt.Errorf("each link entry must have a name and link")
		}
		if seenNames[entry.Name] {
			dupNames = append(dupNames, entry.Name)
		}
		seenNames[entry.Name] = true
		if seenLinks[entry.Link] {
			dupLinks = append(dupLinks, entry.Link)
		}
		seenLinks[entry.Link] = true

		content, err := ing.fetchLink(entry.Link)
		if err != nil {
			ing.logger.Warn("failed to fetch link", zap.String("link", entry.Link), zap.Error(err))
			continue
		}
		docs = append(docs, Document{Name: entry.Name, URL: entry.Link, SourceType: "link", Content: content})
	}

	if err := duplicateError(dupNames, dupLinks, "links"); err != nil {
		return nil, err
	}
	return docs, nil
}

// ProcessFiles reads uploaded files. Plain-text formats are ingested directly;
// anything else is skipped with a warning. Binary document loaders (PDF, DOCX)
// are external collaborators and not handled here.
func (ing *Ingestor) ProcessFiles(files []*multipart.FileHeader) ([]Document, error) {
	var docs []Document
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		switch ext {
		case ".txt", ".md", ".json", ".csv":
		default:
			ing.logger.Warn("skipping unsupported file", zap.String("filename", fh.Filename))
			continue
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
		}

		docs = append(docs, Document{Name: fh.Filename, SourceType: "file", Content: string(content)})
	}
	return docs, nil
}

// fetchLink downloads a page and extracts its visible text.
func (ing *Ingestor) fetchLink(link string) (string, error) {
	resp, err := ing.client.Get(link)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style").Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if text == "" {
		return "", fmt.Errorf("no meaningful text extracted")
	}
	return text, nil
}

func duplicateError(dupNames, dupOther []string, otherLabel string) error {
	var problems []string
	if len(dupNames) > 0 {
		problems = append(problems, "Duplicate names detected: "+strings.Join(dupNames, ", "))
	}
	if len(dupOther) > 0 {
		problems = append(problems, "Duplicate "+otherLabel+" detected: "+strings.Join(dupOther, ", "))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, " | "))
	}
	return nil
}
