package repository

import "context"

// ListingParser превращает присланный документ в строки-позиции
type ListingParser interface {
	// ParseLines строки из файла (.txt или .xlsx) по его содержимому
	ParseLines(ctx context.Context, data []byte, filename string) ([]string, error)
}
