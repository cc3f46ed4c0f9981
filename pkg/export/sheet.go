package export

import "fmt"

// Column is one exported field. Key indexes row values and Title is the printed header.
type Column struct {
	Key     string
	Title   string
	Numeric bool
}

// Sheet is a coverage table: one row per bucket plus an optional totals row.
type Sheet struct {
	Columns []Column
	Rows    []map[string]string
	Totals  map[string]string
}

func (s Sheet) validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("sheet requires at least one column")
	}
	return nil
}

func (s Sheet) titles() []string {
	out := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		out[i] = col.Title
		if out[i] == "" {
			out[i] = col.Key
		}
	}
	return out
}

// records returns the data rows followed by the totals row, if any.
func (s Sheet) records() [][]string {
	rows := s.Rows
	if len(s.Totals) > 0 {
		rows = append(rows[:len(rows):len(rows)], s.Totals)
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, len(s.Columns))
		for i, col := range s.Columns {
			record[i] = row[col.Key]
		}
		out = append(out, record)
	}
	return out
}
