package domain

// Table is an ordered collection of Records sharing a schema.
// Pipeline operations treat a Table as a value: they return a new Table and
// leave their input untouched.
type Table struct {
	Columns []Column `json:"columns"`
	Records []Record `json:"records"`
}

// NewTable creates a table with the given schema and records
func NewTable(columns []Column, records []Record) Table {
	return Table{
		Columns: append([]Column(nil), columns...),
		Records: append([]Record(nil), records...),
	}
}

// Len returns the number of records
func (t Table) Len() int {
	return len(t.Records)
}

// Clone returns a copy that shares no backing arrays with t
func (t Table) Clone() Table {
	return NewTable(t.Columns, t.Records)
}

// WithRecords returns a table with t's schema and the given records
func (t Table) WithRecords(records []Record) Table {
	return NewTable(t.Columns, records)
}

// HasColumn reports whether the schema declares col
func (t Table) HasColumn(col Column) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Countries returns the country of every record in order
func (t Table) Countries() []string {
	out := make([]string, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Country
	}
	return out
}
