package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/lagref/pkg/types"
)

// Manifest lists documents for a batch ingestion run.
//
//	documents:
//	  - id: "2018:218"
//	    type: statute
//	    title: Lag (2018:218) med kompletterande bestämmelser ...
//	    issued_date: "2018-04-19"
//	    in_force_date: "2018-05-25"
//	    as_of: "2021-01-01"
//	    text_file: texts/2018-218.txt
type Manifest struct {
	Documents []ManifestEntry `yaml:"documents"`
}

// ManifestEntry describes one document. Text is read from TextFile,
// relative to the manifest, unless Text is given inline.
type ManifestEntry struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Title       string `yaml:"title"`
	ShortName   string `yaml:"short_name"`
	Status      string `yaml:"status"`
	IssuedDate  string `yaml:"issued_date"`
	InForceDate string `yaml:"in_force_date"`
	AsOf        string `yaml:"as_of"`
	TextFile    string `yaml:"text_file"`
	Text        string `yaml:"text"`
}

// LoadManifest reads a manifest file and the document texts it names.
func LoadManifest(path string) ([]SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data, filepath.Dir(path))
}

// ParseManifest decodes manifest YAML. Relative text files resolve against
// baseDir.
func ParseManifest(data []byte, baseDir string) ([]SourceDocument, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	docs := make([]SourceDocument, 0, len(m.Documents))
	for i, e := range m.Documents {
		src, err := e.toSource(baseDir)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d (%s): %w", i, e.ID, err)
		}
		docs = append(docs, src)
	}
	return docs, nil
}

func (e ManifestEntry) toSource(baseDir string) (SourceDocument, error) {
	if e.ID == "" {
		return SourceDocument{}, fmt.Errorf("id: %w", types.ErrMissingArgument)
	}

	doc := types.LegalDocument{
		ID:        e.ID,
		Type:      types.DocumentType(e.Type),
		Title:     e.Title,
		ShortName: types.SomeIfNonEmpty(e.ShortName),
		Status:    types.DocumentStatus(e.Status),
	}
	if doc.Type == "" {
		doc.Type = types.DocumentTypeStatute
	}

	var err error
	if e.IssuedDate != "" {
		if doc.IssuedDate, err = types.ParseDate(e.IssuedDate); err != nil {
			return SourceDocument{}, fmt.Errorf("issued_date: %w", err)
		}
	}
	if doc.InForceDate, err = optionalDate(e.InForceDate); err != nil {
		return SourceDocument{}, fmt.Errorf("in_force_date: %w", err)
	}
	asOf, err := optionalDate(e.AsOf)
	if err != nil {
		return SourceDocument{}, fmt.Errorf("as_of: %w", err)
	}

	text := e.Text
	if e.TextFile != "" {
		path := e.TextFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return SourceDocument{}, fmt.Errorf("read text: %w", err)
		}
		text = string(data)
	}

	return SourceDocument{Document: doc, Text: text, AsOf: asOf}, nil
}

func optionalDate(s string) (types.Option[types.Date], error) {
	if s == "" {
		return types.None[types.Date](), nil
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return types.None[types.Date](), err
	}
	return types.Some(d), nil
}
