package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is written by Export and accepted (along with 0) by Load.
const CurrentVersion = 1

// Format selects the on-disk encoding of a Document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the top-level structure for import and export.
type Document struct {
	Version     int                `json:"version" yaml:"version"`
	Projects    []ProjectImport    `json:"projects,omitempty" yaml:"projects,omitempty"`
	Assignees   []AssigneeImport   `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	Assignments []AssignmentImport `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

type ProjectImport struct {
	ShortID     string `json:"short_id" yaml:"short_id"`
	Name        string `json:"name" yaml:"name"`
	Team        string `json:"team,omitempty" yaml:"team,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	Priority    *int   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
}

type AssigneeImport struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Team        string `json:"team,omitempty" yaml:"team,omitempty"`
	CapacityPct *int   `json:"capacity_pct,omitempty" yaml:"capacity_pct,omitempty"`
	Active      *bool  `json:"active,omitempty" yaml:"active,omitempty"`
}

// AssignmentImport places an assignee (by name) on a project (by short ID).
// Either Week or the inclusive From/To range is set. Weeks are Monday dates
// or quarter refs such as 2025-Q1/W3.
type AssignmentImport struct {
	Assignee      string `json:"assignee" yaml:"assignee"`
	Project       string `json:"project" yaml:"project"`
	Week          string `json:"week,omitempty" yaml:"week,omitempty"`
	From          string `json:"from,omitempty" yaml:"from,omitempty"`
	To            string `json:"to,omitempty" yaml:"to,omitempty"`
	AllocationPct int    `json:"allocation_pct" yaml:"allocation_pct"`
	Note          string `json:"note,omitempty" yaml:"note,omitempty"`
}

// FormatForPath picks a format from the file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json or yaml)", s)
	}
}

// LoadDocument reads and parses an import file. Files without a .yaml/.yml
// extension are parsed as JSON when they start with '{' and as YAML otherwise.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := FormatForPath(path)
	if format == FormatJSON {
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] != '{' {
			format = FormatYAML
		}
	}
	return Parse(data, format)
}

// Parse decodes data in the given format. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &doc, nil
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}
