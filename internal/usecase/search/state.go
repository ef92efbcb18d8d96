package search

import (
	"slices"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
)

// Status состояние конечного автомата поиска
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSearching Status = "searching"
	StatusLoaded    Status = "loaded"
	StatusError     Status = "error"
)

// Snapshot снимок состояния поиска для слоя представления
type Snapshot struct {
	Query     string              `json:"query"`
	Page      int                 `json:"page"`
	Status    Status              `json:"status"`
	Results   []domain.Photo      `json:"results"`
	HasMore   bool                `json:"has_more"`
	IsLoading bool                `json:"is_loading"`
	Error     *domain.SearchError `json:"error"`
}

func idleState() Snapshot {
	return Snapshot{Page: 1, Status: StatusIdle, Results: []domain.Photo{}}
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Results = slices.Clone(s.Results)
	if out.Results == nil {
		out.Results = []domain.Photo{}
	}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}

// settledStatus статус после тихой отмены текущего запроса
func settledStatus(s Snapshot) Status {
	switch {
	case s.Error != nil:
		return StatusError
	case len(s.Results) > 0:
		return StatusLoaded
	default:
		return StatusIdle
	}
}
