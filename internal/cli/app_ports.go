package cli

import "github.com/legoplanner/legoplanner/internal/app"

func (a *App) gridUseCase() app.GridUseCase {
	if a.GridBuilder != nil {
		return a.GridBuilder
	}
	return a.Grid
}

func (a *App) editUseCase() app.EditUseCase {
	if a.Editor != nil {
		return a.Editor
	}
	return a.Assignments
}
