package nbastats

// ResultSet is one tabular block from a stats.nba.com response: a header row
// and untyped data rows in header order.
type ResultSet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// seasonColumns are the header names the season column has been observed
// under, in lookup order.
var seasonColumns = []string{"SEASON_ID", "Season", "SEASON", "season"}

// Column returns the index of the named header, or -1 when absent.
func (rs *ResultSet) Column(name string) int {
	for i, h := range rs.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// SeasonColumn locates the season column using the fallback name list.
// Fails with *SourceFormatError when none of the known names is present.
func (rs *ResultSet) SeasonColumn() (int, error) {
	for _, name := range seasonColumns {
		if idx := rs.Column(name); idx >= 0 {
			return idx, nil
		}
	}
	return -1, &SourceFormatError{
		Endpoint: rs.Name,
		Reason:   "no season column found",
	}
}

// Int returns the integer value of the named column in row, or nil when the
// column is absent or the cell is not numeric. JSON numbers arrive as
// float64 and are truncated.
func (rs *ResultSet) Int(row []interface{}, column string) *int {
	idx := rs.Column(column)
	if idx < 0 || idx >= len(row) {
		return nil
	}
	switch v := row[idx].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		return &v
	default:
		return nil
	}
}

// String returns the string value of the named column in row, or "" when
// absent or not a string.
func (rs *ResultSet) String(row []interface{}, column string) string {
	idx := rs.Column(column)
	return rs.StringAt(row, idx)
}

// StringAt is like String but addresses the column by index, for callers
// that already resolved the column (e.g. via SeasonColumn).
func (rs *ResultSet) StringAt(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	if s, ok := row[idx].(string); ok {
		return s
	}
	return ""
}
