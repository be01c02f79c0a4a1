package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/telegram-stock-bot/config"
	"github.com/yourusername/telegram-stock-bot/internal/assortment"
	"github.com/yourusername/telegram-stock-bot/internal/delivery/telegram"
	"github.com/yourusername/telegram-stock-bot/internal/infrastructure/parser"
	"github.com/yourusername/telegram-stock-bot/internal/infrastructure/storage"
	"github.com/yourusername/telegram-stock-bot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	classifier := assortment.NewDefault()

	inventoryRepo, err := storage.NewFileInventoryRepository(
		cfg.InventoryFile, cfg.BackupDir, cfg.MaxBackups, classifier.FallbackHeader())
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища ассортимента: %v", err)
	}

	counterRepo, err := storage.NewSQLiteCounterRepository(cfg.CounterDBPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации базы счётчиков: %v", err)
	}

	undoRepo, err := storage.NewFileUndoRepository(cfg.UndoFile)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища отката: %v", err)
	}

	inventoryUC := usecase.NewInventoryUseCase(inventoryRepo, counterRepo, undoRepo, classifier)
	salesUC := usecase.NewSalesUseCase(inventoryRepo, counterRepo, undoRepo)

	handler, err := telegram.NewBotHandler(
		cfg.BotToken,
		telegram.Options{
			AdminID:          cfg.AdminID,
			MainGroupID:      cfg.MainGroupID,
			ThreadSales:      cfg.ThreadSales,
			ThreadAssortment: cfg.ThreadAssortment,
			ThreadArrival:    cfg.ThreadArrival,
			ThreadPreorder:   cfg.ThreadPreorder,
		},
		inventoryUC,
		salesUC,
		parser.NewListingParser(),
	)
	if err != nil {
		log.Fatalf("Ошибка создания бота: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// health-check для хостинга
	healthSrv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}),
	}
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Health-сервер остановлен: %v", err)
		}
	}()

	if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Бот завершился с ошибкой: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(shutdownCtx)
	log.Println("Бот остановлен")
}
