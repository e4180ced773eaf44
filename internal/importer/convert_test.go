package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/legoplanner/legoplanner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monday(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestConvert_AppliesDefaults(t *testing.T) {
	doc := validMinimalDocument()
	doc.Projects[0].ShortID = "cas01"
	doc.Projects = append(doc.Projects, ProjectImport{ShortID: "OLD01", Name: "Old", Status: "archived"})

	out, err := Convert(doc)
	require.NoError(t, err)

	require.Len(t, out.Projects, 2)
	p := out.Projects[0]
	assert.Equal(t, "CAS01", p.ShortID)
	assert.Equal(t, domain.ProjectPlanned, p.Status)
	assert.Equal(t, domain.PriorityDefault, p.Priority)
	assert.Equal(t, domain.DefaultColor("CAS01"), p.Color)
	assert.NotEmpty(t, p.ID)
	assert.NotNil(t, out.Projects[1].ArchivedAt)

	require.Len(t, out.Assignees, 1)
	assert.Equal(t, domain.DefaultCapacityPct, out.Assignees[0].CapacityPct)
	assert.True(t, out.Assignees[0].Active)

	require.Len(t, out.Assignments, 1)
	assert.Equal(t, PlannedAssignment{
		AssigneeName:   "Ada",
		ProjectShortID: "CAS01",
		WeekStart:      monday("2025-01-06"),
		AllocationPct:  50,
	}, out.Assignments[0])
}

func TestConvert_ExpandsRanges(t *testing.T) {
	doc := validMinimalDocument()
	doc.Assignments = []AssignmentImport{
		{Assignee: "Ada", Project: "CAS01", From: "2025-03-24", To: "2025-04-07", AllocationPct: 20},
	}
	out, err := Convert(doc)
	require.NoError(t, err)
	require.Len(t, out.Assignments, 3)
	assert.Equal(t, monday("2025-03-31"), out.Assignments[1].WeekStart)
}

func TestBuild_CollapsesConsecutiveWeeks(t *testing.T) {
	castle := &domain.Project{ID: "p1", ShortID: "CAS01", Name: "Castle", Status: domain.ProjectActive, Priority: 2, Color: "#112233"}
	ada := &domain.Assignee{ID: "a1", Name: "Ada", CapacityPct: 80, Active: true}
	as := []domain.Assignment{
		{AssigneeID: "a1", ProjectID: "p1", WeekStart: monday("2025-01-13"), AllocationPct: 50},
		{AssigneeID: "a1", ProjectID: "p1", WeekStart: monday("2025-01-06"), AllocationPct: 50},
		{AssigneeID: "a1", ProjectID: "p1", WeekStart: monday("2025-01-20"), AllocationPct: 50},
		{AssigneeID: "a1", ProjectID: "p1", WeekStart: monday("2025-02-03"), AllocationPct: 50},
		{AssigneeID: "a1", ProjectID: "p1", WeekStart: monday("2025-02-10"), AllocationPct: 30},
		{AssigneeID: "a1", ProjectID: "gone", WeekStart: monday("2025-02-10"), AllocationPct: 30},
	}

	doc := Build([]*domain.Project{castle}, []*domain.Assignee{ada}, as)

	want := []AssignmentImport{
		{Assignee: "Ada", Project: "CAS01", From: "2025-01-06", To: "2025-01-20", AllocationPct: 50},
		{Assignee: "Ada", Project: "CAS01", Week: "2025-02-03", AllocationPct: 50},
		{Assignee: "Ada", Project: "CAS01", Week: "2025-02-10", AllocationPct: 30},
	}
	if diff := cmp.Diff(want, doc.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, CurrentVersion, doc.Version)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, 2, *doc.Projects[0].Priority)
}

func TestEncodeParse_BothFormats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			doc := validMinimalDocument()
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, doc, format))

			parsed, err := Parse(buf.Bytes(), format)
			require.NoError(t, err)
			if diff := cmp.Diff(doc, parsed); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`{"projects":[{"short_id":"A1","nmae":"typo"}]}`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("projects:\n  - short_id: AB1\n    nmae: typo\n"), FormatYAML)
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("plan.YML"))
	assert.Equal(t, FormatYAML, FormatForPath("plan.yaml"))
	assert.Equal(t, FormatJSON, FormatForPath("plan.json"))
	assert.Equal(t, FormatJSON, FormatForPath("plan"))
}
