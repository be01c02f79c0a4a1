package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
	"github.com/yourusername/telegram-stock-bot/internal/domain/repository"
)

const backupPrefix = "inventory_backup_"

type fileInventoryRepository struct {
	mu         sync.Mutex
	path       string
	backupDir  string
	maxBackups int
	legacyHdr  string
}

// NewFileInventoryRepository хранилище каталога в JSON-файле с
// резервными копиями перед каждой записью. legacyHeader — заголовок
// категории, в которую сворачивается старый плоский формат.
func NewFileInventoryRepository(path, backupDir string, maxBackups int, legacyHeader string) (repository.InventoryRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("путь к файлу каталога пуст")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать папку каталога: %w", err)
		}
	}
	return &fileInventoryRepository{
		path:       path,
		backupDir:  backupDir,
		maxBackups: maxBackups,
		legacyHdr:  legacyHeader,
	}, nil
}

// Load загрузить весь каталог. Старый плоский формат ([{"text": ...}])
// мигрируется в одну категорию и сразу сохраняется в новом виде.
func (f *fileInventoryRepository) Load(ctx context.Context) (entity.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return entity.Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать каталог: %w", err)
	}

	catalog, migrated, err := f.decode(data)
	if err != nil {
		return nil, fmt.Errorf("каталог повреждён: %w", err)
	}
	if migrated {
		if err := f.saveLocked(catalog); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Save сохранить весь каталог, предварительно отложив резервную копию
func (f *fileInventoryRepository) Save(ctx context.Context, catalog entity.Catalog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked(catalog)
}

// Clear очистить ассортимент (резервная копия остаётся)
func (f *fileInventoryRepository) Clear(ctx context.Context) error {
	return f.Save(ctx, entity.Catalog{})
}

func (f *fileInventoryRepository) saveLocked(catalog entity.Catalog) error {
	if err := f.backupCurrent(); err != nil {
		return err
	}
	if catalog == nil {
		catalog = entity.Catalog{}
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать каталог: %w", err)
	}
	// Пишем во временный файл и переименовываем, чтобы при сбое
	// на диске не остался наполовину записанный каталог
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".inventory-*")
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось записать каталог: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось закрыть временный файл: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось заменить файл каталога: %w", err)
	}
	return nil
}

func (f *fileInventoryRepository) decode(data []byte) (entity.Catalog, bool, error) {
	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, err
	}

	legacy := len(probe) > 0
	for _, obj := range probe {
		if _, ok := obj["text"]; !ok {
			legacy = false
			break
		}
	}

	if legacy {
		items := make([]string, 0, len(probe))
		for _, obj := range probe {
			var text string
			if err := json.Unmarshal(obj["text"], &text); err != nil {
				return nil, false, err
			}
			items = append(items, text)
		}
		return entity.Catalog{{Header: f.legacyHdr, Items: items}}, true, nil
	}

	var catalog entity.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, false, err
	}
	return catalog, false, nil
}

// backupCurrent копия текущего файла с меткой времени в имени
func (f *fileInventoryRepository) backupCurrent() error {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("не удалось прочитать каталог для копии: %w", err)
	}
	if err := os.MkdirAll(f.backupDir, 0o755); err != nil {
		return fmt.Errorf("не удалось создать папку копий: %w", err)
	}
	name := fmt.Sprintf("%s%s.json", backupPrefix, time.Now().Format("20060102_150405.000"))
	if err := os.WriteFile(filepath.Join(f.backupDir, name), data, 0o644); err != nil {
		return fmt.Errorf("не удалось записать копию: %w", err)
	}
	return f.cleanOldBackups()
}

// cleanOldBackups оставляет не больше maxBackups свежих копий
func (f *fileInventoryRepository) cleanOldBackups() error {
	entries, err := os.ReadDir(f.backupDir)
	if err != nil {
		return nil
	}
	var backups []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), ".json") {
			backups = append(backups, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	for i := f.maxBackups; i < len(backups); i++ {
		os.Remove(filepath.Join(f.backupDir, backups[i]))
	}
	return nil
}
