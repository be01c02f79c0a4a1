package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config конфигурация бота
type Config struct {
	BotToken string
	AdminID  int64

	// Группа и топики, в которых работает бот
	MainGroupID      int64
	ThreadSales      int
	ThreadAssortment int
	ThreadArrival    int
	ThreadPreorder   int // необязательный: 0 — топик не обслуживается

	InventoryFile string
	BackupDir     string
	MaxBackups    int
	CounterDBPath string
	UndoFile      string

	Port int
}

// Load загрузка конфигурации из окружения (.env подхватывается, если есть)
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		InventoryFile: "inventory.json",
		BackupDir:     "backups",
		MaxBackups:    10,
		CounterDBPath: "data/counters.db",
		UndoFile:      "last_action.json",
		Port:          8000,
	}

	var err error
	if cfg.AdminID, err = envInt64("ADMIN_ID"); err != nil {
		return nil, err
	}
	if cfg.MainGroupID, err = envInt64("MAIN_GROUP_ID"); err != nil {
		return nil, err
	}
	if cfg.ThreadSales, err = envInt("THREAD_SALES"); err != nil {
		return nil, err
	}
	if cfg.ThreadAssortment, err = envInt("THREAD_ASSORTMENT"); err != nil {
		return nil, err
	}
	if cfg.ThreadArrival, err = envInt("THREAD_ARRIVAL"); err != nil {
		return nil, err
	}
	if cfg.ThreadPreorder, err = envInt("THREAD_PREORDER"); err != nil {
		return nil, err
	}

	if v := os.Getenv("INVENTORY_FILE"); v != "" {
		cfg.InventoryFile = v
	}
	if v := os.Getenv("BACKUP_DIR"); v != "" {
		cfg.BackupDir = v
	}
	if v := os.Getenv("MAX_BACKUPS"); v != "" {
		if cfg.MaxBackups, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("MAX_BACKUPS в неверном формате: %w", err)
		}
	}
	if v := os.Getenv("COUNTER_DB_PATH"); v != "" {
		cfg.CounterDBPath = v
	}
	if v := os.Getenv("UNDO_FILE"); v != "" {
		cfg.UndoFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if cfg.Port, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("PORT в неверном формате: %w", err)
		}
	}

	// Валидация обязательных переменных (THREAD_PREORDER опционален)
	if cfg.BotToken == "" || cfg.AdminID == 0 || cfg.MainGroupID == 0 ||
		cfg.ThreadSales == 0 || cfg.ThreadAssortment == 0 {
		return nil, fmt.Errorf("не заданы обязательные переменные окружения: BOT_TOKEN, ADMIN_ID, MAIN_GROUP_ID, THREAD_SALES, THREAD_ASSORTMENT")
	}

	return cfg, nil
}

func envInt64(name string) (int64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s в неверном формате: %w", name, err)
	}
	return v, nil
}

func envInt(name string) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s в неверном формате: %w", name, err)
	}
	return v, nil
}
