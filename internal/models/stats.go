package models

import (
	"bytes"
	"encoding/json"
)

// ExpenseStats contains aggregate figures over the whole expense collection.
// RecentCount is the total number of records; it is not time-windowed.
type ExpenseStats struct {
	Total       float64        `json:"total"`
	ByCategory  CategoryTotals `json:"by_category"`
	RecentCount int            `json:"recent_count"`
}

// CategoryTotal is the summed amount for one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// CategoryTotals keeps per-category sums in order of first appearance and
// encodes as a JSON object with keys in that order.
type CategoryTotals []CategoryTotal

// Get returns the total for category and whether it is present.
func (ct CategoryTotals) Get(category string) (float64, bool) {
	for _, c := range ct {
		if c.Category == category {
			return c.Total, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler.
func (ct CategoryTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range ct {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Total)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order.
func (ct *CategoryTotals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	out := CategoryTotals{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var total float64
		if err := dec.Decode(&total); err != nil {
			return err
		}
		out = append(out, CategoryTotal{Category: key, Total: total})
	}
	*ct = out
	return nil
}
