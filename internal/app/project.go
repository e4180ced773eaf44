package app

import "github.com/legoplanner/legoplanner/internal/domain"

// ProjectGroup is one heading of a grouped project list.
type ProjectGroup struct {
	Key      string
	Projects []*domain.Project
}
