package repository

import (
	"context"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

// UndoRepository хранение последнего действия для отката
type UndoRepository interface {
	// SaveAction запомнить последнее действие (затирает предыдущее)
	SaveAction(ctx context.Context, action entity.LastAction) error

	// GetAction получить последнее действие, nil если его нет
	GetAction(ctx context.Context) (*entity.LastAction, error)

	// ClearAction забыть последнее действие
	ClearAction(ctx context.Context) error
}
