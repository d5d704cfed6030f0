package models

import "encoding/json"

// ChecklistKeys is the fixed key set of the job checklist, in display order.
var ChecklistKeys = []string{
	"vehicle_received",
	"damage_documented",
	"test_drive",
	"customer_informed",
	"keys_returned",
}

// ChecklistLabels maps checklist keys to their display labels.
var ChecklistLabels = map[string]string{
	"vehicle_received":  "Fahrzeug angenommen",
	"damage_documented": "Schäden dokumentiert",
	"test_drive":        "Probefahrt",
	"customer_informed": "Kunde informiert",
	"keys_returned":     "Schlüssel zurückgegeben",
}

// Checklist holds the per-job checklist state. Keys outside ChecklistKeys
// are dropped on normalization; missing keys read as false.
type Checklist map[string]bool

// NormalizeChecklist returns a checklist with exactly the fixed key set.
func NormalizeChecklist(c Checklist) Checklist {
	out := make(Checklist, len(ChecklistKeys))
	for _, k := range ChecklistKeys {
		out[k] = c[k]
	}
	return out
}

// ParseChecklist decodes the stored JSON representation. Malformed or empty
// input yields an all-false checklist.
func ParseChecklist(raw string) Checklist {
	var c Checklist
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &c)
	}
	return NormalizeChecklist(c)
}

// Encode renders the checklist as its stored JSON representation.
func (c Checklist) Encode() string {
	b, err := json.Marshal(NormalizeChecklist(c))
	if err != nil {
		return "{}"
	}
	return string(b)
}
