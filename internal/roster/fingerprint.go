package roster

import (
	"encoding/json"
	"strings"
)

type fingerprintEntry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	RedFlag    int    `json:"redFlag"`
	Onhold     int    `json:"onhold"`
	Assisted   int    `json:"assisted"`
	Late       int    `json:"late"`
}

// Fingerprint returns a canonical, order-sensitive encoding of records. Two
// sets share a fingerprint exactly when they have the same length and every
// position matches field by field after trimming the string fields.
func Fingerprint(records []Record) string {
	entries := make([]fingerprintEntry, len(records))
	for i, r := range records {
		entries[i] = fingerprintEntry{
			ID:         r.ID,
			Name:       strings.TrimSpace(r.Name),
			Department: strings.TrimSpace(r.Department),
			RedFlag:    r.RedFlag,
			Onhold:     r.Onhold,
			Assisted:   r.AssistedTicket,
			Late:       r.Late,
		}
	}
	// Marshalling a slice of plain structs cannot fail.
	data, _ := json.Marshal(entries)
	return string(data)
}
