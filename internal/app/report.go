package app

import (
	"github.com/legoplanner/legoplanner/internal/weeks"
)

type CapacityRequest struct {
	Quarter weeks.Quarter
	Teams   []string
}

func NewCapacityRequest(q weeks.Quarter) CapacityRequest {
	return CapacityRequest{Quarter: q}
}

type AssigneeUtilisation struct {
	AssigneeID     string  `json:"assigneeId"`
	Name           string  `json:"name"`
	Team           string  `json:"team"`
	CapacityPW     float64 `json:"capacityPersonWeeks"`
	AllocatedPW    float64 `json:"allocatedPersonWeeks"`
	UtilisationPct float64 `json:"utilisationPct"`
	OverWeeks      int     `json:"overAllocatedWeeks"`
	FreeWeeks      int     `json:"freeWeeks"`
}

type ProjectEffort struct {
	ProjectID     string      `json:"projectId"`
	ShortID       string      `json:"shortId"`
	Name          string      `json:"name"`
	Team          string      `json:"team"`
	PersonWeeks   float64     `json:"personWeeks"`
	Assignees     int         `json:"assignees"`
	FirstWeek     *weeks.Week `json:"firstWeek,omitempty"`
	LastWeek      *weeks.Week `json:"lastWeek,omitempty"`
	PeakHeadcount int         `json:"peakHeadcount"`
}

type CapacityTotals struct {
	CapacityPW     float64 `json:"capacityPersonWeeks"`
	AllocatedPW    float64 `json:"allocatedPersonWeeks"`
	UtilisationPct float64 `json:"utilisationPct"`
	OverWeeks      int     `json:"overAllocatedWeeks"`
}

type CapacityReport struct {
	Quarter   weeks.Quarter         `json:"quarter"`
	Weeks     []weeks.Week          `json:"weeks"`
	Assignees []AssigneeUtilisation `json:"assignees"`
	Projects  []ProjectEffort       `json:"projects"`
	Totals    CapacityTotals        `json:"totals"`
}
