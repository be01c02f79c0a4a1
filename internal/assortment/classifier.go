// Package assortment разбирает свободный текст ассортимента на
// категории и собирает его обратно в канонический вид с группировкой
// позиций по памяти, SIM, размеру часов и поколению чипа.
package assortment

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
)

// groupKey место группы при сортировке и строка-подзаголовок перед ней
type groupKey struct {
	rank  int
	label string // "" — группа без подзаголовка
}

// noGroup группа "не определено": всегда в конце, без подзаголовка
var noGroup = groupKey{rank: math.MaxInt}

// arrangeRule правило раскладки позиций внутри категории: предикат по
// заголовку, ключ группы и ключ подгруппы. Новые виды товаров
// добавляются строкой в таблицу, а не веткой в коде.
type arrangeRule struct {
	keywords []string
	group    func(item string) groupKey
	sub      func(item string) groupKey
}

// Classifier разбор и классификация ассортимента по словарю
type Classifier struct {
	vocab  Vocabulary
	rules  []arrangeRule
	genRes []*regexp.Regexp
}

// New классификатор с заданным словарём
func New(vocab Vocabulary) *Classifier {
	c := &Classifier{vocab: vocab}
	for _, gen := range vocab.Generations {
		c.genRes = append(c.genRes, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(gen)+`\b`))
	}
	c.rules = []arrangeRule{
		{keywords: vocab.PhoneKeywords, group: memoryKey, sub: simKey},
		{keywords: vocab.WearableKeywords, group: watchSizeKey},
		{keywords: vocab.LaptopKeywords, group: c.chipGenKey, sub: memoryKey},
	}
	return c
}

// NewDefault классификатор со словарём по умолчанию
func NewDefault() *Classifier {
	return New(DefaultVocabulary())
}

// FallbackHeader заголовок для позиций без категории
func (c *Classifier) FallbackHeader() string {
	return c.vocab.FallbackHeader
}

// isDashLine строка только из дефисов (разделитель)
func isDashLine(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return strings.Trim(s, "-") == ""
}

// isBorderLine рамка заголовка: сплошные дефисы длиннее разделителя "-"
func isBorderLine(s string) bool {
	s = strings.TrimSpace(s)
	return isDashLine(s) && strings.Count(s, "-") >= 3
}

// isHeaderLine заголовок категории: однострочная рамка -Название:- либо
// средняя строка трёхстрочного блока между сплошными рамками
func isHeaderLine(trimmed, prev, next string) bool {
	if !strings.Contains(trimmed, ":") {
		return false
	}
	if strings.HasPrefix(trimmed, "-") && strings.HasSuffix(trimmed, "-") {
		return true
	}
	return isBorderLine(prev) && isBorderLine(next)
}

// isSubHeaderLine внутренний подзаголовок ("128GB:", "-eSIM-"):
// при разборе выбрасывается, рендер восстановит его заново
func isSubHeaderLine(trimmed string) bool {
	if strings.HasSuffix(trimmed, ":") {
		return true
	}
	return strings.HasPrefix(trimmed, "-") && strings.HasSuffix(trimmed, "-")
}

// normalizeHeader текст заголовка без рамочных дефисов и двоеточия
func normalizeHeader(trimmed string) string {
	header := strings.Trim(trimmed, "- ")
	header = strings.TrimSuffix(header, ":")
	return NormalizeName(header)
}

// headerKey заголовок для сравнения: без двоеточия, без регистра
func headerKey(header string) string {
	key := strings.ToLower(NormalizeName(header))
	key = strings.TrimSuffix(key, ":")
	return strings.TrimSpace(key)
}

// Parse разбирает текст на категории. Пустые строки и разделители
// пропускаются, подзаголовки выбрасываются, позиции до первого
// заголовка попадают в категорию по умолчанию. Категории без позиций
// не возвращаются.
func (c *Classifier) Parse(text string) entity.Catalog {
	lines := strings.Split(text, "\n")

	var catalog entity.Catalog
	var items []string
	header := ""
	opened := false

	closeCategory := func() {
		if opened && len(items) > 0 {
			catalog = append(catalog, entity.Category{Header: header, Items: items})
		}
		items = nil
	}

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isDashLine(trimmed) {
			continue
		}

		var prev, next string
		if i > 0 {
			prev = lines[i-1]
		}
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		if isHeaderLine(trimmed, prev, next) {
			closeCategory()
			header = normalizeHeader(trimmed)
			opened = true
			continue
		}

		if isSubHeaderLine(trimmed) {
			continue
		}

		if !opened {
			header = c.vocab.FallbackHeader
			opened = true
		}
		items = append(items, line)
	}
	closeCategory()
	return catalog
}

// Render собирает каталог в текст: рамочный заголовок, раскладка
// позиций по правилу категории, пустая строка между категориями.
func (c *Classifier) Render(catalog entity.Catalog) string {
	var lines []string
	for _, cat := range catalog {
		display := NormalizeName(cat.Header)
		if !strings.HasSuffix(display, ":") {
			display += ":"
		}
		border := strings.Repeat("-", utf8.RuneCountInString(display)+2)
		lines = append(lines, border, display, border, "-")
		lines = append(lines, c.arrangeItems(cat.Header, cat.Items)...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// ruleFor правило раскладки по заголовку, nil — сортировка по алфавиту
func (c *Classifier) ruleFor(header string) *arrangeRule {
	lower := strings.ToLower(header)
	for i := range c.rules {
		for _, kw := range c.rules[i].keywords {
			if strings.Contains(lower, kw) {
				return &c.rules[i]
			}
		}
	}
	return nil
}

// arrangeItems строки категории с подзаголовками и разделителями
func (c *Classifier) arrangeItems(header string, items []string) []string {
	rule := c.ruleFor(header)
	if rule == nil {
		return sortedCopy(items)
	}

	groups := make(map[groupKey][]string)
	for _, item := range items {
		gk := rule.group(item)
		groups[gk] = append(groups[gk], item)
	}

	var out []string
	for _, gk := range sortedKeys(groups) {
		if gk.label != "" {
			out = append(out, gk.label, "-")
		}
		if rule.sub == nil {
			out = append(out, sortedCopy(groups[gk])...)
			out = append(out, "-")
			continue
		}
		subs := make(map[groupKey][]string)
		for _, item := range groups[gk] {
			sk := rule.sub(item)
			subs[sk] = append(subs[sk], item)
		}
		for _, sk := range sortedKeys(subs) {
			if sk.label != "" {
				out = append(out, sk.label, "-")
			}
			out = append(out, sortedCopy(subs[sk])...)
			out = append(out, "-")
		}
	}
	return out
}

// chipGenKey группа по поколению чипа, незнакомое поколение — "Other"
func (c *Classifier) chipGenKey(item string) groupKey {
	for i, re := range c.genRes {
		if re.MatchString(item) {
			return groupKey{rank: i, label: c.vocab.Generations[i] + ":"}
		}
	}
	return groupKey{rank: len(c.genRes), label: "Other:"}
}

// extractBaseName базовое имя товара (модель + память) для подбора
// категории: часть до первой запятой плюс объём памяти
func (c *Classifier) extractBaseName(item string) string {
	modelPart := item
	if idx := strings.Index(item, ","); idx >= 0 {
		modelPart = item[:idx]
	}
	base := strings.TrimSpace(modelPart)
	if mem := ExtractMemory(item); mem != "" {
		base += " " + mem
	}
	return normalizeModel(NormalizeName(base))
}

// ClassifyDestination индекс категории для позиции, -1 если подходящей
// нет. Сначала точное совпадение базового имени с заголовком, затем
// поиск подстроки в обе стороны — первая подошедшая категория
// выигрывает, возможная неточность принята осознанно.
func (c *Classifier) ClassifyDestination(item string, catalog entity.Catalog) int {
	base := strings.ToLower(c.extractBaseName(item))

	for idx, cat := range catalog {
		if headerKey(cat.Header) == base {
			return idx
		}
	}
	for idx, cat := range catalog {
		key := headerKey(cat.Header)
		if key == "" {
			continue
		}
		if strings.Contains(base, key) || strings.Contains(key, base) {
			return idx
		}
	}
	return -1
}

// Insert добавляет позицию в подходящую категорию, при необходимости
// создавая новую. Маркер б/у направляет позицию в категорию Б/У мимо
// обычной классификации.
func (c *Classifier) Insert(item string, catalog entity.Catalog) (entity.Catalog, int) {
	lower := strings.ToLower(strings.TrimSpace(item))

	if c.vocab.UsedMarker != "" && strings.HasPrefix(lower, c.vocab.UsedMarker) {
		usedKey := headerKey(c.vocab.UsedHeader)
		for idx, cat := range catalog {
			if headerKey(cat.Header) == usedKey {
				catalog[idx].Items = append(catalog[idx].Items, item)
				return catalog, idx
			}
		}
		catalog = append(catalog, entity.Category{Header: c.vocab.UsedHeader, Items: []string{item}})
		return catalog, len(catalog) - 1
	}

	if idx := c.ClassifyDestination(item, catalog); idx >= 0 {
		catalog[idx].Items = append(catalog[idx].Items, item)
		return catalog, idx
	}

	var header string
	if c.isPhoneItem(lower) {
		header = c.extractBaseName(item) + ":"
	} else if idx := strings.Index(item, ","); idx >= 0 {
		header = strings.TrimSpace(item[:idx]) + ":"
	} else {
		words := strings.Fields(item)
		if len(words) > 2 {
			words = words[:2]
		}
		header = strings.Join(words, " ") + ":"
	}
	header = NormalizeName(header)

	catalog = append(catalog, entity.Category{Header: header, Items: []string{item}})
	return catalog, len(catalog) - 1
}

// isPhoneItem содержит ли позиция телефонное ключевое слово
func (c *Classifier) isPhoneItem(lower string) bool {
	for _, kw := range c.vocab.PhoneKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func sortedCopy(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}

func sortedKeys(groups map[groupKey][]string) []groupKey {
	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].rank != keys[j].rank {
			return keys[i].rank < keys[j].rank
		}
		return keys[i].label < keys[j].label
	})
	return keys
}
