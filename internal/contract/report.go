package contract

import (
	"github.com/legoplanner/legoplanner/internal/app"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

type CapacityRequest = app.CapacityRequest

func NewCapacityRequest(q weeks.Quarter) CapacityRequest {
	return app.NewCapacityRequest(q)
}

type AssigneeUtilisation = app.AssigneeUtilisation

type ProjectEffort = app.ProjectEffort

type CapacityTotals = app.CapacityTotals

type CapacityReport = app.CapacityReport
