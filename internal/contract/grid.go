package contract

import (
	"github.com/legoplanner/legoplanner/internal/app"
	"github.com/legoplanner/legoplanner/internal/weeks"
)

type GridRequest = app.GridRequest

func NewGridRequest(q weeks.Quarter) GridRequest {
	return app.NewGridRequest(q)
}

type GridEntry = app.GridEntry

type GridCell = app.GridCell

type GridRow = app.GridRow

type GridView = app.GridView
