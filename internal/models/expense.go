package models

// DateLayout is the calendar-day format used for expense dates.
const DateLayout = "2006-01-02"

// Expense represents a single recorded expense.
type Expense struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string  `gorm:"not null" json:"description"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Category    string  `gorm:"not null;index" json:"category"`
	Date        string  `gorm:"type:varchar(10);not null" json:"date"`
}

// ExpensePatch carries the fields of a partial update. Nil fields keep
// their stored value.
type ExpensePatch struct {
	Description *string
	Amount      *float64
	Category    *string
	Date        *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Description == nil && p.Amount == nil && p.Category == nil && p.Date == nil
}

// Apply overwrites the fields of e that are set in the patch.
func (p ExpensePatch) Apply(e *Expense) {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
}
