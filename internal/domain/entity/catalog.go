package entity

// Category категория ассортимента: заголовок и позиции в порядке добавления
type Category struct {
	Header string   `json:"header"`
	Items  []string `json:"items"`
}

// Catalog весь ассортимент магазина
type Catalog []Category

// AllItems все позиции каталога одним списком
func (c Catalog) AllItems() []string {
	var items []string
	for _, cat := range c {
		items = append(items, cat.Items...)
	}
	return items
}

// TotalItems общее количество позиций
func (c Catalog) TotalItems() int {
	n := 0
	for _, cat := range c {
		n += len(cat.Items)
	}
	return n
}

// Clone глубокая копия каталога (мутации не должны трогать оригинал)
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for i, cat := range c {
		items := make([]string, len(cat.Items))
		copy(items, cat.Items)
		out[i] = Category{Header: cat.Header, Items: items}
	}
	return out
}
