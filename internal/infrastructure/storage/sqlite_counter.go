package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
	"github.com/yourusername/telegram-stock-bot/internal/domain/repository"
)

type sqliteCounterRepository struct {
	db *sql.DB
}

// NewSQLiteCounterRepository счётчики, финансы и журнал действий в SQLite.
// Строки ключуются датой, поэтому "сброс в полночь" — это просто чтение
// сегодняшней строки: вчерашние данные остаются для истории.
func NewSQLiteCounterRepository(dbPath string) (repository.CounterRepository, error) {
	if dbPath == "" {
		return nil, errors.New("путь к базе счётчиков пуст")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать папку базы: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть sqlite: %w", err)
	}

	if err := createCounterSchema(db); err != nil {
		return nil, err
	}

	return &sqliteCounterRepository{db: db}, nil
}

func createCounterSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS day_stats (
	date TEXT PRIMARY KEY,
	preorders INTEGER NOT NULL DEFAULT 0,
	bookings INTEGER NOT NULL DEFAULT 0,
	sales INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS day_finances (
	date TEXT PRIMARY KEY,
	terminal INTEGER NOT NULL DEFAULT 0,
	cash INTEGER NOT NULL DEFAULT 0,
	qr INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS actions (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	details TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions (ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("не удалось создать схему: %w", err)
	}
	return nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func (s *sqliteCounterRepository) addStat(ctx context.Context, column string, delta int) error {
	query := fmt.Sprintf(`
INSERT INTO day_stats (date, %[1]s) VALUES (?, ?)
ON CONFLICT(date) DO UPDATE SET %[1]s = %[1]s + excluded.%[1]s`, column)
	_, err := s.db.ExecContext(ctx, query, today(), delta)
	return err
}

// AddPreorder увеличить счётчик предзаказов за сегодня
func (s *sqliteCounterRepository) AddPreorder(ctx context.Context, delta int) error {
	return s.addStat(ctx, "preorders", delta)
}

// AddBooking увеличить счётчик броней за сегодня
func (s *sqliteCounterRepository) AddBooking(ctx context.Context, delta int) error {
	return s.addStat(ctx, "bookings", delta)
}

// AddSales увеличить счётчик продаж за сегодня
func (s *sqliteCounterRepository) AddSales(ctx context.Context, delta int) error {
	return s.addStat(ctx, "sales", delta)
}

// GetStats счётчики за сегодня, при отсутствии строки — нули
func (s *sqliteCounterRepository) GetStats(ctx context.Context) (entity.DayStats, error) {
	stats := entity.DayStats{Date: today()}
	row := s.db.QueryRowContext(ctx,
		`SELECT preorders, bookings, sales FROM day_stats WHERE date = ?`, stats.Date)
	err := row.Scan(&stats.Preorders, &stats.Bookings, &stats.Sales)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	return stats, err
}

// ResetStats обнулить счётчики за сегодня
func (s *sqliteCounterRepository) ResetStats(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM day_stats WHERE date = ?`, today())
	return err
}

// AddPayment записать оплату за сегодня
func (s *sqliteCounterRepository) AddPayment(ctx context.Context, kind entity.PaymentKind, amount int64) error {
	var column string
	switch kind {
	case entity.PaymentTerminal:
		column = "terminal"
	case entity.PaymentCash:
		column = "cash"
	case entity.PaymentQR:
		column = "qr"
	default:
		return fmt.Errorf("неизвестный способ оплаты: %s", kind)
	}
	query := fmt.Sprintf(`
INSERT INTO day_finances (date, %[1]s, total) VALUES (?, ?, ?)
ON CONFLICT(date) DO UPDATE SET %[1]s = %[1]s + excluded.%[1]s, total = total + excluded.total`, column)
	_, err := s.db.ExecContext(ctx, query, today(), amount, amount)
	return err
}

// GetFinances денежные итоги за сегодня, при отсутствии строки — нули
func (s *sqliteCounterRepository) GetFinances(ctx context.Context) (entity.DayFinances, error) {
	fin := entity.DayFinances{Date: today()}
	row := s.db.QueryRowContext(ctx,
		`SELECT terminal, cash, qr, total FROM day_finances WHERE date = ?`, fin.Date)
	err := row.Scan(&fin.Terminal, &fin.Cash, &fin.QR, &fin.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return fin, nil
	}
	return fin, err
}

// ResetFinances обнулить финансы за сегодня
func (s *sqliteCounterRepository) ResetFinances(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM day_finances WHERE date = ?`, today())
	return err
}

// LogAction записать действие в журнал
func (s *sqliteCounterRepository) LogAction(ctx context.Context, action entity.ActionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actions (id, user_id, action, details, ts) VALUES (?, ?, ?, ?, ?)`,
		action.ID, action.UserID, action.Action, action.Details, action.Timestamp)
	return err
}
