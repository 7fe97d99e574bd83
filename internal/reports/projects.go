package reports

import (
	"context"
	"fmt"

	"github.com/savegress/plantpulse/pkg/models"
)

// Kanban column order, left to right
var kanbanStatuses = []models.ProjectStatus{
	models.ProjectStatusBacklog,
	models.ProjectStatusInProgress,
	models.ProjectStatusReview,
	models.ProjectStatusDone,
}

// Projects groups improvement projects into kanban columns with savings
// totals
func (s *Service) Projects(ctx context.Context) (*KanbanBoard, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}

	byStatus := make(map[models.ProjectStatus][]*models.ImprovementProject)
	board := &KanbanBoard{}
	for _, p := range projects {
		byStatus[p.Status] = append(byStatus[p.Status], p)
		board.TotalTarget += p.TargetSavings
		board.TotalRealized += p.RealizedSavings
	}

	for _, status := range kanbanStatuses {
		column := KanbanColumn{
			Status:   status,
			Projects: byStatus[status],
		}
		if column.Projects == nil {
			column.Projects = []*models.ImprovementProject{}
		}
		board.Columns = append(board.Columns, column)
	}

	return board, nil
}
