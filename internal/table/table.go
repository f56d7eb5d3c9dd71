package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rickpr/data-covid19-sfbayarea/internal/county"
)

// DefaultState is written into the state column of every row
const DefaultState = "CA"

// Columns is the header of every county CSV, in file order
var Columns = []string{
	"date",
	"time_updated",
	"total_positive_cases",
	"new_daily_cases",
	"total_deaths",
	"new_daily_deaths",
	"city",
	"county",
	"state",
}

// ErrEmptyTable is returned when there is no previous row to compute deltas from
var ErrEmptyTable = errors.New("historical table has no rows")

// NullInt is an integer cell that may be missing
type NullInt struct {
	Int   int
	Valid bool
}

// Int wraps n as a present value
func Int(n int) NullInt {
	return NullInt{Int: n, Valid: true}
}

// ParseNullInt reads a numeric cell. Empty or malformed cells yield a missing value.
// Float renderings of whole numbers ("12.0") are accepted.
func ParseNullInt(s string) NullInt {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullInt{}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return Int(int(f))
	}
	return NullInt{}
}

// Sub returns n - o, missing if either side is missing
func (n NullInt) Sub(o NullInt) NullInt {
	if !n.Valid || !o.Valid {
		return NullInt{}
	}
	return Int(n.Int - o.Int)
}

// String renders the cell; a missing value is empty
func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Int)
}

// MarshalJSON renders a missing value as null
func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Int)
}

// Row is one daily observation
type Row struct {
	Date               string  `json:"date"`
	TimeUpdated        string  `json:"time_updated"`
	TotalPositiveCases NullInt `json:"total_positive_cases"`
	NewDailyCases      NullInt `json:"new_daily_cases"`
	TotalDeaths        NullInt `json:"total_deaths"`
	NewDailyDeaths     NullInt `json:"new_daily_deaths"`
	City               string  `json:"city"`
	County             string  `json:"county"`
	State              string  `json:"state"`

	// raw holds the cells exactly as read so stored rows are written back untouched
	raw []string
}

// RowFromRecord builds a Row from CSV cells in Columns order
func RowFromRecord(record []string) (Row, error) {
	if len(record) != len(Columns) {
		return Row{}, fmt.Errorf("expected %d cells, got %d", len(Columns), len(record))
	}
	raw := make([]string, len(record))
	copy(raw, record)

	return Row{
		Date:               record[0],
		TimeUpdated:        record[1],
		TotalPositiveCases: ParseNullInt(record[2]),
		NewDailyCases:      ParseNullInt(record[3]),
		TotalDeaths:        ParseNullInt(record[4]),
		NewDailyDeaths:     ParseNullInt(record[5]),
		City:               record[6],
		County:             record[7],
		State:              record[8],
		raw:                raw,
	}, nil
}

// Record returns the row's CSV cells in Columns order
func (r Row) Record() []string {
	if r.raw != nil {
		out := make([]string, len(r.raw))
		copy(out, r.raw)
		return out
	}
	return []string{
		r.Date,
		r.TimeUpdated,
		r.TotalPositiveCases.String(),
		r.NewDailyCases.String(),
		r.TotalDeaths.String(),
		r.NewDailyDeaths.String(),
		r.City,
		r.County,
		r.State,
	}
}

// Table is the ordered history of one county
type Table struct {
	Rows []Row
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Last returns the most recent row
func (t *Table) Last() (Row, error) {
	if len(t.Rows) == 0 {
		return Row{}, ErrEmptyTable
	}
	return t.Rows[len(t.Rows)-1], nil
}

// Append adds row at the end of the table
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Labels are the display values written into each new row
type Labels struct {
	City   string
	County string
	State  string
}

// BuildRow computes the next row from the table's last row and freshly extracted fields
func BuildRow(t *Table, fields county.Fields, labels Labels, now time.Time) (Row, error) {
	prev, err := t.Last()
	if err != nil {
		return Row{}, err
	}

	state := labels.State
	if state == "" {
		state = DefaultState
	}

	cases := Int(fields.TotalCases)
	deaths := Int(fields.TotalDeaths)

	return Row{
		Date:               CurrentDate(now),
		TimeUpdated:        FormatTime(fields.TimeUpdated),
		TotalPositiveCases: cases,
		NewDailyCases:      cases.Sub(prev.TotalPositiveCases),
		TotalDeaths:        deaths,
		NewDailyDeaths:     deaths.Sub(prev.TotalDeaths),
		City:               labels.City,
		County:             labels.County,
		State:              state,
	}, nil
}

// NegativeDeltas lists the delta columns of row that went down
func NegativeDeltas(row Row) []string {
	var cols []string
	if row.NewDailyCases.Valid && row.NewDailyCases.Int < 0 {
		cols = append(cols, "new_daily_cases")
	}
	if row.NewDailyDeaths.Valid && row.NewDailyDeaths.Int < 0 {
		cols = append(cols, "new_daily_deaths")
	}
	return cols
}
