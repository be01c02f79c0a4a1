package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

func newTestCounterRepo(t *testing.T) *sqliteCounterRepository {
	t.Helper()
	repo, err := NewSQLiteCounterRepository(filepath.Join(t.TempDir(), "counters.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCounterRepository: %v", err)
	}
	return repo.(*sqliteCounterRepository)
}

func TestCounterStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestCounterRepo(t)

	// без записей — нули за сегодня
	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Preorders != 0 || stats.Bookings != 0 || stats.Sales != 0 {
		t.Errorf("GetStats() = %+v, want нули", stats)
	}
	if stats.Date != time.Now().Format("2006-01-02") {
		t.Errorf("Date = %q", stats.Date)
	}

	if err := repo.AddPreorder(ctx, 1); err != nil {
		t.Fatalf("AddPreorder: %v", err)
	}
	if err := repo.AddBooking(ctx, 1); err != nil {
		t.Fatalf("AddBooking: %v", err)
	}
	if err := repo.AddSales(ctx, 3); err != nil {
		t.Fatalf("AddSales: %v", err)
	}
	if err := repo.AddSales(ctx, -1); err != nil {
		t.Fatalf("AddSales: %v", err)
	}

	stats, err = repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Preorders != 1 || stats.Bookings != 1 || stats.Sales != 2 {
		t.Errorf("GetStats() = %+v", stats)
	}

	if err := repo.ResetStats(ctx); err != nil {
		t.Fatalf("ResetStats: %v", err)
	}
	stats, err = repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Preorders != 0 || stats.Bookings != 0 || stats.Sales != 0 {
		t.Errorf("после сброса GetStats() = %+v", stats)
	}
}

func TestCounterFinances(t *testing.T) {
	ctx := context.Background()
	repo := newTestCounterRepo(t)

	if err := repo.AddPayment(ctx, entity.PaymentTerminal, 10000); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	if err := repo.AddPayment(ctx, entity.PaymentCash, 5000); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	if err := repo.AddPayment(ctx, entity.PaymentQR, 2500); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}

	fin, err := repo.GetFinances(ctx)
	if err != nil {
		t.Fatalf("GetFinances: %v", err)
	}
	if fin.Terminal != 10000 || fin.Cash != 5000 || fin.QR != 2500 || fin.Total != 17500 {
		t.Errorf("GetFinances() = %+v", fin)
	}

	if err := repo.AddPayment(ctx, entity.PaymentKind("крипта"), 100); err == nil {
		t.Error("ожидалась ошибка для неизвестного способа оплаты")
	}

	if err := repo.ResetFinances(ctx); err != nil {
		t.Fatalf("ResetFinances: %v", err)
	}
	fin, err = repo.GetFinances(ctx)
	if err != nil {
		t.Fatalf("GetFinances: %v", err)
	}
	if fin.Total != 0 {
		t.Errorf("после сброса GetFinances() = %+v", fin)
	}
}

func TestCounterLogAction(t *testing.T) {
	ctx := context.Background()
	repo := newTestCounterRepo(t)

	rec := entity.ActionRecord{
		ID:        "test-id-1",
		UserID:    42,
		Action:    "sale",
		Details:   "продано: 1",
		Timestamp: time.Now(),
	}
	if err := repo.LogAction(ctx, rec); err != nil {
		t.Fatalf("LogAction: %v", err)
	}

	var count int
	row := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE user_id = ?`, rec.UserID)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
