// Package serial ищет серийные номера в строках-позициях и удаляет
// позиции из каталога по точному совпадению серийника.
package serial

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

// Отсев ложных срабатываний: характеристики товара и телефонные номера
var (
	unitRe    = regexp.MustCompile(`(?i)^\d+\s*(mm|см|дюйм|gb|tb|mb|руб|р|\$|€|%|скидка|бонус)$`)
	phoneRe   = regexp.MustCompile(`^\+?\d{10,11}$`)
	bracketRe = regexp.MustCompile(`\(([0-9A-Za-zА-Яа-яЁё._\-]{4,})\)`)
	tokenRe   = regexp.MustCompile(`[0-9A-Za-zА-Яа-яЁё._\-]{4,}`)
)

// IsCandidate похож ли токен на серийный номер.
// Токен из скобок считается серийником безусловно: скобки ставят намеренно.
func IsCandidate(token string, inBrackets bool) bool {
	if inBrackets {
		return true
	}
	if utf8.RuneCountInString(token) < 6 {
		return false
	}
	if phoneRe.MatchString(token) {
		return false
	}
	if isDigits(token) {
		return true
	}
	if unitRe.MatchString(token) {
		return false
	}
	if containsDigit(token) {
		return true
	}
	if isUpper(token) && utf8.RuneCountInString(token) >= 8 {
		return true
	}
	return false
}

// Extract первый подходящий серийник в строке, "" если не найден.
// Токен в скобках имеет приоритет над голыми токенами.
func Extract(line string) string {
	if sub := bracketRe.FindStringSubmatch(line); sub != nil {
		if IsCandidate(sub[1], true) {
			return sub[1]
		}
	}
	for _, token := range tokenRe.FindAllString(line, -1) {
		if IsCandidate(token, false) {
			return token
		}
	}
	return ""
}

// ExtractAll все серийники из текста. Порядок не значим, результат без
// повторов; скобочная форма классифицируется раньше голой.
func ExtractAll(text string) []string {
	seen := make(map[string]bool)
	var serials []string
	for _, sub := range bracketRe.FindAllStringSubmatch(text, -1) {
		token := sub[1]
		if seen[token] {
			continue
		}
		if IsCandidate(token, true) {
			seen[token] = true
			serials = append(serials, token)
		}
	}
	for _, token := range tokenRe.FindAllString(text, -1) {
		if seen[token] {
			continue
		}
		if IsCandidate(token, false) {
			seen[token] = true
			serials = append(serials, token)
		}
	}
	return serials
}

// RemoveBySerial убирает из каталога все позиции с данным серийником.
// Категории не удаляются, даже опустевшие: прибытие заполнит их снова.
func RemoveBySerial(catalog entity.Catalog, serial string) (entity.Catalog, int) {
	removed := 0
	out := make(entity.Catalog, 0, len(catalog))
	for _, cat := range catalog {
		kept := make([]string, 0, len(cat.Items))
		for _, item := range cat.Items {
			if Extract(item) == serial {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		out = append(out, entity.Category{Header: cat.Header, Items: kept})
	}
	return out, removed
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// isUpper как str.isupper: есть хотя бы одна буква и ни одной строчной
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
