package repository

import (
	"context"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

// InventoryRepository хранилище ассортимента
type InventoryRepository interface {
	// Load загрузить весь каталог (пустой файл — пустой каталог)
	Load(ctx context.Context) (entity.Catalog, error)

	// Save сохранить весь каталог целиком
	Save(ctx context.Context, catalog entity.Catalog) error

	// Clear очистить ассортимент
	Clear(ctx context.Context) error
}
