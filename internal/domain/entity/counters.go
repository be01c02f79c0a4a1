package entity

import "time"

// DayStats счётчики за один день
type DayStats struct {
	Date      string
	Preorders int
	Bookings  int
	Sales     int
}

// PaymentKind способ оплаты
type PaymentKind string

const (
	PaymentTerminal PaymentKind = "terminal"
	PaymentCash     PaymentKind = "cash"
	PaymentQR       PaymentKind = "qr"
)

// DayFinances денежные итоги за один день
type DayFinances struct {
	Date     string
	Terminal int64
	Cash     int64
	QR       int64
	Total    int64
}

// ActionRecord запись в журнале действий
type ActionRecord struct {
	ID        string
	UserID    int64
	Action    string // "sale", "booking", "arrival", "replace", "undo", "clear"
	Details   string
	Timestamp time.Time
}
