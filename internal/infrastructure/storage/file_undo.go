package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
	"github.com/yourusername/telegram-stock-bot/internal/domain/repository"
)

type fileUndoRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileUndoRepository последнее действие в JSON-файле, переживает
// перезапуск бота
func NewFileUndoRepository(path string) (repository.UndoRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("путь к файлу отката пуст")
	}
	return &fileUndoRepository{path: path}, nil
}

// SaveAction запомнить последнее действие
func (f *fileUndoRepository) SaveAction(ctx context.Context, action entity.LastAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(action, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать действие: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("не удалось записать файл отката: %w", err)
	}
	return nil
}

// GetAction последнее действие, nil если файла нет
func (f *fileUndoRepository) GetAction(ctx context.Context) (*entity.LastAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл отката: %w", err)
	}
	var action entity.LastAction
	if err := json.Unmarshal(data, &action); err != nil {
		return nil, fmt.Errorf("файл отката повреждён: %w", err)
	}
	return &action, nil
}

// ClearAction забыть последнее действие
func (f *fileUndoRepository) ClearAction(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("не удалось удалить файл отката: %w", err)
	}
	return nil
}
