package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
	"github.com/yourusername/telegram-stock-bot/internal/domain/repository"
	"github.com/yourusername/telegram-stock-bot/internal/serial"
)

// SaleResult серийники, снятые с остатков, и ненайденные
type SaleResult struct {
	Removed  []string
	NotFound []string
}

// SalesUseCase продажи, счётчики дня и откат
type SalesUseCase interface {
	// Sell снять с остатков все позиции, чьи серийники найдены в тексте
	Sell(ctx context.Context, text string, userID int64) (SaleResult, error)

	// Undo откатить последнее действие, возвращает описание отката
	Undo(ctx context.Context, userID int64) (string, error)

	// RecordPreorder посчитать предзаказ
	RecordPreorder(ctx context.Context) error

	// AddPayment записать оплату за сегодня
	AddPayment(ctx context.Context, kind entity.PaymentKind, amount int64) error

	// Stats счётчики за сегодня
	Stats(ctx context.Context) (entity.DayStats, error)

	// ResetStats обнулить счётчики за сегодня
	ResetStats(ctx context.Context) error

	// Finances денежные итоги за сегодня
	Finances(ctx context.Context) (entity.DayFinances, error)

	// ResetFinances обнулить финансы за сегодня
	ResetFinances(ctx context.Context) error
}

type salesUseCase struct {
	inventoryRepo repository.InventoryRepository
	counterRepo   repository.CounterRepository
	undoRepo      repository.UndoRepository
}

// NewSalesUseCase сборка usecase продаж
func NewSalesUseCase(
	inventoryRepo repository.InventoryRepository,
	counterRepo repository.CounterRepository,
	undoRepo repository.UndoRepository,
) SalesUseCase {
	return &salesUseCase{
		inventoryRepo: inventoryRepo,
		counterRepo:   counterRepo,
		undoRepo:      undoRepo,
	}
}

// Sell снять с остатков все позиции по серийникам из текста
func (u *salesUseCase) Sell(ctx context.Context, text string, userID int64) (SaleResult, error) {
	var result SaleResult

	candidates := serial.ExtractAll(text)
	if len(candidates) == 0 {
		return result, nil
	}

	catalog, err := u.inventoryRepo.Load(ctx)
	if err != nil {
		return result, err
	}

	var removedItems []entity.RemovedItem
	for _, cand := range candidates {
		for _, cat := range catalog {
			for _, item := range cat.Items {
				if serial.Extract(item) == cand {
					removedItems = append(removedItems, entity.RemovedItem{
						Header: cat.Header,
						Item:   item,
					})
				}
			}
		}
		var removed int
		catalog, removed = serial.RemoveBySerial(catalog, cand)
		if removed > 0 {
			result.Removed = append(result.Removed, cand)
		} else {
			result.NotFound = append(result.NotFound, cand)
		}
	}

	if len(result.Removed) == 0 {
		return result, nil
	}

	if err := u.inventoryRepo.Save(ctx, catalog); err != nil {
		return result, err
	}
	if err := u.counterRepo.AddSales(ctx, len(result.Removed)); err != nil {
		return result, err
	}
	if err := u.undoRepo.SaveAction(ctx, entity.LastAction{
		Type:    entity.ActionSale,
		Removed: removedItems,
	}); err != nil {
		return result, err
	}
	_ = u.counterRepo.LogAction(ctx, entity.ActionRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    "sale",
		Details:   fmt.Sprintf("продано: %d, не найдено: %d", len(result.Removed), len(result.NotFound)),
		Timestamp: time.Now(),
	})
	return result, nil
}

// Undo откатить последнее действие: продажа возвращает позиции в их
// категории, бронь убирается из каталога
func (u *salesUseCase) Undo(ctx context.Context, userID int64) (string, error) {
	action, err := u.undoRepo.GetAction(ctx)
	if err != nil {
		return "", err
	}
	if action == nil {
		return "", fmt.Errorf("нет действия для отката")
	}

	catalog, err := u.inventoryRepo.Load(ctx)
	if err != nil {
		return "", err
	}

	var description string
	switch action.Type {
	case entity.ActionSale:
		for _, rem := range action.Removed {
			catalog = restoreItem(catalog, rem)
		}
		if err := u.inventoryRepo.Save(ctx, catalog); err != nil {
			return "", err
		}
		if err := u.counterRepo.AddSales(ctx, -len(action.Removed)); err != nil {
			return "", err
		}
		description = fmt.Sprintf("возвращено позиций: %d", len(action.Removed))

	case entity.ActionBooking:
		out := make(entity.Catalog, 0, len(catalog))
		for _, cat := range catalog {
			kept := make([]string, 0, len(cat.Items))
			for _, item := range cat.Items {
				if item == action.Added {
					continue
				}
				kept = append(kept, item)
			}
			out = append(out, entity.Category{Header: cat.Header, Items: kept})
		}
		if err := u.inventoryRepo.Save(ctx, out); err != nil {
			return "", err
		}
		if err := u.counterRepo.AddBooking(ctx, -1); err != nil {
			return "", err
		}
		description = fmt.Sprintf("снята бронь: %s", action.Added)

	default:
		return "", fmt.Errorf("неизвестный тип действия: %s", action.Type)
	}

	if err := u.undoRepo.ClearAction(ctx); err != nil {
		return "", err
	}
	_ = u.counterRepo.LogAction(ctx, entity.ActionRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    "undo",
		Details:   description,
		Timestamp: time.Now(),
	})
	return description, nil
}

// restoreItem вернуть позицию в категорию с её прежним заголовком
func restoreItem(catalog entity.Catalog, rem entity.RemovedItem) entity.Catalog {
	for idx, cat := range catalog {
		if cat.Header == rem.Header {
			catalog[idx].Items = append(catalog[idx].Items, rem.Item)
			return catalog
		}
	}
	return append(catalog, entity.Category{Header: rem.Header, Items: []string{rem.Item}})
}

// RecordPreorder посчитать предзаказ
func (u *salesUseCase) RecordPreorder(ctx context.Context) error {
	return u.counterRepo.AddPreorder(ctx, 1)
}

// AddPayment записать оплату за сегодня
func (u *salesUseCase) AddPayment(ctx context.Context, kind entity.PaymentKind, amount int64) error {
	return u.counterRepo.AddPayment(ctx, kind, amount)
}

// Stats счётчики за сегодня
func (u *salesUseCase) Stats(ctx context.Context) (entity.DayStats, error) {
	return u.counterRepo.GetStats(ctx)
}

// ResetStats обнулить счётчики за сегодня
func (u *salesUseCase) ResetStats(ctx context.Context) error {
	return u.counterRepo.ResetStats(ctx)
}

// Finances денежные итоги за сегодня
func (u *salesUseCase) Finances(ctx context.Context) (entity.DayFinances, error) {
	return u.counterRepo.GetFinances(ctx)
}

// ResetFinances обнулить финансы за сегодня
func (u *salesUseCase) ResetFinances(ctx context.Context) error {
	return u.counterRepo.ResetFinances(ctx)
}
