package models

import (
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/store"
)

// Item is a billable line on a job (work or material).
type Item struct {
	ID          string
	JobID       string
	ItemType    string
	Description string
	Qty         float64
	UnitPrice   float64
	CreatedAt   time.Time
}

// LineTotal is the derived line price.
func (i Item) LineTotal() float64 {
	return i.Qty * i.UnitPrice
}

// ItemsTotal sums the line totals of all items.
func ItemsTotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

// ItemFromRow decodes a store record into an Item.
func ItemFromRow(rec store.Row) Item {
	return Item{
		ID:          asString(rec["id"]),
		JobID:       asString(rec["job_id"]),
		ItemType:    asString(rec["item_type"]),
		Description: asString(rec["description"]),
		Qty:         asFloat(rec["qty"]),
		UnitPrice:   asFloat(rec["unit_price"]),
		CreatedAt:   asTime(rec["created_at"]),
	}
}

// Row encodes the item as a store record.
func (i Item) Row() store.Row {
	return store.Row{
		"id":          i.ID,
		"job_id":      i.JobID,
		"item_type":   i.ItemType,
		"description": i.Description,
		"qty":         i.Qty,
		"unit_price":  i.UnitPrice,
		"created_at":  timeValue(i.CreatedAt),
	}
}
