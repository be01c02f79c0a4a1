package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

func TestFileUndoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileUndoRepository(filepath.Join(t.TempDir(), "last_action.json"))
	if err != nil {
		t.Fatalf("NewFileUndoRepository: %v", err)
	}

	// до первого сохранения действия нет
	got, err := repo.GetAction(ctx)
	if err != nil {
		t.Fatalf("GetAction: %v", err)
	}
	if got != nil {
		t.Errorf("GetAction() = %+v, want nil", got)
	}

	action := entity.LastAction{
		Type: entity.ActionSale,
		Removed: []entity.RemovedItem{
			{Header: "iPhone 15:", Item: "iPhone 15, 128GB (SN0001)"},
		},
	}
	if err := repo.SaveAction(ctx, action); err != nil {
		t.Fatalf("SaveAction: %v", err)
	}

	got, err = repo.GetAction(ctx)
	if err != nil {
		t.Fatalf("GetAction: %v", err)
	}
	if got == nil || !reflect.DeepEqual(*got, action) {
		t.Errorf("GetAction() = %+v, want %+v", got, action)
	}

	if err := repo.ClearAction(ctx); err != nil {
		t.Fatalf("ClearAction: %v", err)
	}
	got, err = repo.GetAction(ctx)
	if err != nil {
		t.Fatalf("GetAction: %v", err)
	}
	if got != nil {
		t.Errorf("после очистки GetAction() = %+v, want nil", got)
	}

	// повторная очистка не ошибка
	if err := repo.ClearAction(ctx); err != nil {
		t.Errorf("повторный ClearAction: %v", err)
	}
}
