package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/telegram-stock-bot/internal/assortment"
	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
	"github.com/yourusername/telegram-stock-bot/internal/domain/repository"
	"github.com/yourusername/telegram-stock-bot/internal/serial"
)

// MergeReport итог добавления партии: что вошло и что отсеялось
type MergeReport struct {
	Added   []string
	Skipped []string
}

// Total сколько строк было обработано
func (r MergeReport) Total() int {
	return len(r.Added) + len(r.Skipped)
}

// InventoryUseCase операции над ассортиментом
type InventoryUseCase interface {
	// PreviewUpload разобрать текст на категории без сохранения
	// (для шага подтверждения)
	PreviewUpload(ctx context.Context, text string) (entity.Catalog, error)

	// ReplaceCatalog целиком заменить ассортимент
	ReplaceCatalog(ctx context.Context, catalog entity.Catalog, userID int64) error

	// AddArrival добавить партию строк с дедупликацией по тексту и серийнику
	AddArrival(ctx context.Context, lines []string, userID int64) (MergeReport, error)

	// AddBooking оформить бронь: строка с серийником получает пометку
	// с датой и встаёт в каталог
	AddBooking(ctx context.Context, lines []string, userID int64) (string, error)

	// ExportText отрендерить каталог в канонический текст
	ExportText(ctx context.Context) (string, int, error)

	// Snapshot текущий каталог
	Snapshot(ctx context.Context) (entity.Catalog, error)

	// Clear полностью очистить ассортимент
	Clear(ctx context.Context, userID int64) error
}

type inventoryUseCase struct {
	inventoryRepo repository.InventoryRepository
	counterRepo   repository.CounterRepository
	undoRepo      repository.UndoRepository
	classifier    *assortment.Classifier
}

// NewInventoryUseCase сборка usecase ассортимента
func NewInventoryUseCase(
	inventoryRepo repository.InventoryRepository,
	counterRepo repository.CounterRepository,
	undoRepo repository.UndoRepository,
	classifier *assortment.Classifier,
) InventoryUseCase {
	return &inventoryUseCase{
		inventoryRepo: inventoryRepo,
		counterRepo:   counterRepo,
		undoRepo:      undoRepo,
		classifier:    classifier,
	}
}

var (
	dashOnlyRe    = regexp.MustCompile(`^\s*-+\s*$`)
	bookingItemRe = regexp.MustCompile(`(?i)\([A-Z0-9-]{5,}\)`)
)

// PreviewUpload разобрать текст на категории без сохранения
func (u *inventoryUseCase) PreviewUpload(ctx context.Context, text string) (entity.Catalog, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("пустой список")
	}
	catalog := u.classifier.Parse(text)
	if len(catalog) == 0 {
		return nil, fmt.Errorf("не удалось распознать ни одной категории")
	}
	return catalog, nil
}

// ReplaceCatalog целиком заменить ассортимент
func (u *inventoryUseCase) ReplaceCatalog(ctx context.Context, catalog entity.Catalog, userID int64) error {
	if err := u.inventoryRepo.Save(ctx, catalog); err != nil {
		return err
	}
	u.logAction(ctx, userID, "replace",
		fmt.Sprintf("категорий: %d, позиций: %d", len(catalog), catalog.TotalItems()))
	return nil
}

// AddArrival добавить партию строк с дедупликацией
func (u *inventoryUseCase) AddArrival(ctx context.Context, lines []string, userID int64) (MergeReport, error) {
	var report MergeReport

	var filtered []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || dashOnlyRe.MatchString(line) {
			continue
		}
		filtered = append(filtered, line)
	}
	if len(filtered) == 0 {
		return report, fmt.Errorf("нет ни одной позиции после фильтрации")
	}

	catalog, err := u.inventoryRepo.Load(ctx)
	if err != nil {
		return report, err
	}

	existingTexts := make(map[string]bool)
	existingSerials := make(map[string]bool)
	for _, item := range catalog.AllItems() {
		existingTexts[item] = true
		if s := serial.Extract(item); s != "" {
			existingSerials[s] = true
		}
	}

	for _, line := range filtered {
		if existingTexts[line] {
			report.Skipped = append(report.Skipped, fmt.Sprintf("[Дубликат текста] %s", line))
			continue
		}
		s := serial.Extract(line)
		if s != "" && existingSerials[s] {
			report.Skipped = append(report.Skipped, fmt.Sprintf("[Дубликат серийного номера %s] %s", s, line))
			continue
		}
		catalog, _ = u.classifier.Insert(line, catalog)
		existingTexts[line] = true
		if s != "" {
			existingSerials[s] = true
		}
		report.Added = append(report.Added, line)
	}

	if len(report.Added) > 0 {
		if err := u.inventoryRepo.Save(ctx, catalog); err != nil {
			return report, err
		}
		u.logAction(ctx, userID, "arrival",
			fmt.Sprintf("добавлено: %d, пропущено: %d", len(report.Added), len(report.Skipped)))
	}
	return report, nil
}

// AddBooking оформить бронь по первой строке с серийным номером
func (u *inventoryUseCase) AddBooking(ctx context.Context, lines []string, userID int64) (string, error) {
	var itemLine string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if bookingItemRe.MatchString(line) {
			itemLine = line
			break
		}
	}
	if itemLine == "" {
		return "", fmt.Errorf("не удалось найти товар с серийным номером для брони")
	}

	newItem := fmt.Sprintf("%s (Бронь от %s)", itemLine, time.Now().Format("02.01"))

	catalog, err := u.inventoryRepo.Load(ctx)
	if err != nil {
		return "", err
	}
	catalog, _ = u.classifier.Insert(newItem, catalog)
	if err := u.inventoryRepo.Save(ctx, catalog); err != nil {
		return "", err
	}

	if err := u.counterRepo.AddBooking(ctx, 1); err != nil {
		return "", err
	}
	if err := u.undoRepo.SaveAction(ctx, entity.LastAction{
		Type:  entity.ActionBooking,
		Added: newItem,
	}); err != nil {
		return "", err
	}
	u.logAction(ctx, userID, "booking", newItem)

	return newItem, nil
}

// ExportText отрендерить каталог, возвращает текст и число категорий
func (u *inventoryUseCase) ExportText(ctx context.Context) (string, int, error) {
	catalog, err := u.inventoryRepo.Load(ctx)
	if err != nil {
		return "", 0, err
	}
	if len(catalog) == 0 {
		return "", 0, nil
	}
	return u.classifier.Render(catalog), len(catalog), nil
}

// Snapshot текущий каталог
func (u *inventoryUseCase) Snapshot(ctx context.Context) (entity.Catalog, error) {
	return u.inventoryRepo.Load(ctx)
}

// Clear полностью очистить ассортимент
func (u *inventoryUseCase) Clear(ctx context.Context, userID int64) error {
	if err := u.inventoryRepo.Clear(ctx); err != nil {
		return err
	}
	u.logAction(ctx, userID, "clear", "ассортимент очищен")
	return nil
}

func (u *inventoryUseCase) logAction(ctx context.Context, userID int64, action, details string) {
	_ = u.counterRepo.LogAction(ctx, entity.ActionRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now(),
	})
}
