package entity

// Тип последнего действия для отката
const (
	ActionSale    = "sale"
	ActionBooking = "booking"
)

// RemovedItem проданная позиция вместе с категорией, из которой она ушла
type RemovedItem struct {
	Header string `json:"header"`
	Item   string `json:"item"`
}

// LastAction последнее откатываемое действие
type LastAction struct {
	Type string `json:"type"`
	// Для продажи: удалённые позиции, для брони: добавленная строка
	Removed []RemovedItem `json:"removed,omitempty"`
	Added   string        `json:"added,omitempty"`
}
