package parser

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/telegram-stock-bot/internal/domain/repository"
)

// MaxFileSize предел размера присылаемого файла
const MaxFileSize = 5 * 1024 * 1024

type listingParser struct{}

// NewListingParser парсер присылаемых списков позиций (.txt и .xlsx)
func NewListingParser() repository.ListingParser {
	return &listingParser{}
}

// ParseLines строки-позиции из содержимого файла. Формат выбирается по
// расширению: таблицы читаются через excelize, остальное — как текст.
func (p *listingParser) ParseLines(ctx context.Context, data []byte, filename string) ([]string, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("файл больше %d МБ", MaxFileSize/1024/1024)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return p.parseWorkbook(data)
	default:
		return splitLines(string(data)), nil
	}
}

// parseWorkbook первый лист книги, первая непустая ячейка каждой строки
func (p *listingParser) parseWorkbook(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть таблицу: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("в таблице нет листов")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать строки: %w", err)
	}

	var lines []string
	for _, row := range rows {
		for _, cell := range row {
			if cell = strings.TrimSpace(cell); cell != "" {
				lines = append(lines, cell)
				break
			}
		}
	}
	return lines, nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	return lines
}
