package domain

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"
)

var (
	shortIDPattern = regexp.MustCompile(`^[A-Z]{2,6}[0-9]{1,4}$`)
	colorPattern   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

// projectPalette is cycled when a project is created without a color.
var projectPalette = []string{
	"#8ec07c", "#fabd2f", "#83a598", "#d3869b",
	"#fe8019", "#b8bb26", "#458588", "#b16286",
}

type Project struct {
	ID          string
	ShortID     string
	Name        string
	Team        string
	Description string
	Status      ProjectStatus
	Priority    int
	Color       string
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 2-6 uppercase letters followed by 1-4 digits (e.g. LEGO01).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 2-6 uppercase letters followed by 1-4 digits (e.g. LEGO01)", p.ShortID)
	}
	return nil
}

// Validate checks every user-editable field.
func (p *Project) Validate() error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if !ValidProjectStatuses[string(p.Status)] {
		return fmt.Errorf("invalid project status %q", p.Status)
	}
	if p.Priority < PriorityHighest || p.Priority > PriorityLowest {
		return fmt.Errorf("priority %d must be between %d and %d", p.Priority, PriorityHighest, PriorityLowest)
	}
	if p.Color != "" && !colorPattern.MatchString(p.Color) {
		return fmt.Errorf("color %q must be #RRGGBB", p.Color)
	}
	return nil
}

// ApplyDefaults fills zero-valued Status, Priority and Color.
func (p *Project) ApplyDefaults() {
	if p.Status == "" {
		p.Status = ProjectPlanned
	}
	if p.Priority == 0 {
		p.Priority = PriorityDefault
	}
	if p.Color == "" {
		p.Color = DefaultColor(p.ShortID)
	}
}

// IsArchived reports whether the project has been archived.
func (p *Project) IsArchived() bool {
	return p.Status == ProjectArchived || p.ArchivedAt != nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// DefaultColor picks a stable palette color for a short ID.
func DefaultColor(shortID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToUpper(shortID)))
	return projectPalette[h.Sum32()%uint32(len(projectPalette))]
}
