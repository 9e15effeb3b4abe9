package roster

import (
	"math"
	"strconv"
	"strings"
)

// DefaultDepartment is used whenever a row or form leaves the department blank.
const DefaultDepartment = "Helpdesk"

// Column positions within a sheet row.
const (
	colName = iota
	colDepartment
	colRedFlag
	colOnhold
	colAssistedTicket
	colLate
)

// HeaderRow is the canonical header used when a retrieval method has to
// synthesize one.
var HeaderRow = []string{"Name", "Department", "Red Flag", "Onhold", "Assisted Ticket", "Late"}

// Record is one roster entry.
type Record struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	RedFlag        int    `json:"redFlag"`
	Onhold         int    `json:"onhold"`
	AssistedTicket int    `json:"assistedTicket"`
	Late           int    `json:"late"`
}

// WriteData is the payload shape the remote write endpoint expects. It has no
// id: the sheet locates rows by name.
type WriteData struct {
	Name           string `json:"name"`
	Department     string `json:"department"`
	RedFlag        int    `json:"redFlag"`
	Onhold         int    `json:"onhold"`
	AssistedTicket int    `json:"assistedTicket"`
	Late           int    `json:"late"`
}

// WriteData projects the record onto the remote write payload.
func (r Record) WriteData() WriteData {
	dept := strings.TrimSpace(r.Department)
	if dept == "" {
		dept = DefaultDepartment
	}
	return WriteData{
		Name:           strings.TrimSpace(r.Name),
		Department:     dept,
		RedFlag:        r.RedFlag,
		Onhold:         r.Onhold,
		AssistedTicket: r.AssistedTicket,
		Late:           r.Late,
	}
}

// Metrics returns the four metric values in sheet column order.
func (r Record) Metrics() [4]int {
	return [4]int{r.RedFlag, r.Onhold, r.AssistedTicket, r.Late}
}

// MetricNames labels the values returned by Record.Metrics.
var MetricNames = [4]string{"Red Flag", "Onhold", "Assisted Ticket", "Late"}

// ParseGrid converts a raw cell grid into records. The first row is a header
// and is discarded. Rows with a blank name are dropped and ids are assigned by
// position in the filtered output, starting at 1.
func ParseGrid(rows [][]string) []Record {
	records := make([]Record, 0, max(len(rows)-1, 0))
	if len(rows) < 2 {
		return records
	}
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, colName))
		if name == "" {
			continue
		}
		dept := strings.TrimSpace(cell(row, colDepartment))
		if dept == "" {
			dept = DefaultDepartment
		}
		records = append(records, Record{
			ID:             int64(len(records) + 1),
			Name:           name,
			Department:     dept,
			RedFlag:        parseMetric(cell(row, colRedFlag)),
			Onhold:         parseMetric(cell(row, colOnhold)),
			AssistedTicket: parseMetric(cell(row, colAssistedTicket)),
			Late:           parseMetric(cell(row, colLate)),
		})
	}
	return records
}

// Clone returns an independent copy of records.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return dup
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf(records []Record, id int64) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// parseMetric reads a numeric cell, falling back to zero for anything that
// does not parse. Fractions truncate toward zero.
func parseMetric(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
