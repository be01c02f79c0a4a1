package repository

import (
	"context"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

// CounterRepository дневные счётчики, финансы и журнал действий
type CounterRepository interface {
	// AddPreorder увеличить счётчик предзаказов за сегодня
	AddPreorder(ctx context.Context, delta int) error

	// AddBooking увеличить счётчик броней за сегодня
	AddBooking(ctx context.Context, delta int) error

	// AddSales увеличить счётчик продаж за сегодня
	AddSales(ctx context.Context, delta int) error

	// GetStats счётчики за сегодня (нет строки — нули)
	GetStats(ctx context.Context) (entity.DayStats, error)

	// ResetStats обнулить счётчики за сегодня
	ResetStats(ctx context.Context) error

	// AddPayment записать оплату за сегодня
	AddPayment(ctx context.Context, kind entity.PaymentKind, amount int64) error

	// GetFinances денежные итоги за сегодня
	GetFinances(ctx context.Context) (entity.DayFinances, error)

	// ResetFinances обнулить финансы за сегодня
	ResetFinances(ctx context.Context) error

	// LogAction записать действие в журнал
	LogAction(ctx context.Context, action entity.ActionRecord) error
}
