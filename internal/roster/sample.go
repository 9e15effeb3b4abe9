package roster

// Sample returns the bundled roster shown before any successful fetch.
func Sample() []Record {
	return []Record{
		{ID: 1, Name: "A.R Bayer", Department: DefaultDepartment, RedFlag: 85, Onhold: 92, AssistedTicket: 7, Late: 88},
		{ID: 2, Name: "J. Querubin", Department: DefaultDepartment, RedFlag: 92, Onhold: 96, AssistedTicket: 5, Late: 90},
		{ID: 3, Name: "A.L Valente", Department: DefaultDepartment, RedFlag: 78, Onhold: 85, AssistedTicket: 6, Late: 75},
		{ID: 4, Name: "F. Gabiana", Department: DefaultDepartment, RedFlag: 90, Onhold: 98, AssistedTicket: 4, Late: 95},
		{ID: 5, Name: "J.P Lobos", Department: DefaultDepartment, RedFlag: 88, Onhold: 90, AssistedTicket: 8, Late: 82},
	}
}

// Totals aggregates a roster for the summary line.
type Totals struct {
	Agents         int
	RedFlag        int
	Onhold         int
	AssistedTicket int
	Late           int
}

// Summarize sums every metric across records.
func Summarize(records []Record) Totals {
	t := Totals{Agents: len(records)}
	for _, r := range records {
		t.RedFlag += r.RedFlag
		t.Onhold += r.Onhold
		t.AssistedTicket += r.AssistedTicket
		t.Late += r.Late
	}
	return t
}
