// Package report writes ranked tables for people and spreadsheets.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spigell/skills-matcher/internal/candidates"
	"github.com/spigell/skills-matcher/internal/matching"
)

// Formats accepted by Write.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// SortKey is a secondary ordering applied after ranking.
type SortKey struct {
	Column     string `mapstructure:"column"`
	Descending bool   `mapstructure:"descending"`
}

// Options control presentation only; scores are never recomputed.
type Options struct {
	// Headers renames columns on output, e.g. for translation.
	Headers map[string]string
	// LevelColumns are title-cased on output.
	LevelColumns []string
	Sentinels    matching.Sentinels
}

// Sort reorders the table rows by keys. The sort is stable, so rows equal
// on every key keep their rank order. Values that parse as numbers on both
// sides compare numerically.
func Sort(t *matching.Table, keys []SortKey) {
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		for _, key := range keys {
			a := t.Value(t.Rows[i], key.Column)
			b := t.Value(t.Rows[j], key.Column)
			c := compare(a, b)
			if c == 0 {
				continue
			}
			if key.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// header applies the renames. Two columns ending up with the same header
// is an error since JSON rows would lose one of them.
func header(t *matching.Table, opts Options) ([]string, error) {
	out := make([]string, len(t.Columns))
	seen := make(map[string]string, len(t.Columns))
	for i, col := range t.Columns {
		name := col
		if renamed, ok := opts.Headers[col]; ok && renamed != "" {
			name = renamed
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("columns %q and %q share the header %q", prev, col, name)
		}
		seen[name] = col
		out[i] = name
	}
	return out, nil
}

func records(t *matching.Table, opts Options) [][]string {
	levelCols := make(map[int]struct{})
	for i, col := range t.Columns {
		for _, lc := range opts.LevelColumns {
			if col == lc {
				levelCols[i] = struct{}{}
			}
		}
	}

	rows := t.Records()
	for _, row := range rows {
		for i := range levelCols {
			row[i] = candidates.DisplayLevel(row[i], opts.Sentinels)
		}
	}
	return rows
}

// Write renders the table in the given format.
func Write(w io.Writer, format string, t *matching.Table, opts Options) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return writeTable(w, t, opts)
	case FormatCSV:
		return writeCSV(w, t, opts)
	case FormatJSON:
		return writeJSON(w, t, opts)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeTable(w io.Writer, t *matching.Table, opts Options) error {
	cols, err := header(t, opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, row := range records(t, opts) {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, t *matching.Table, opts Options) error {
	cols, err := header(t, opts)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	if err := cw.WriteAll(records(t, opts)); err != nil {
		return err
	}
	return cw.Error()
}

// jsonRow keeps the column order of the table when encoded.
type jsonRow struct {
	keys   []string
	values []string
}

func (r jsonRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, t *matching.Table, opts Options) error {
	cols, err := header(t, opts)
	if err != nil {
		return err
	}

	out := make([]jsonRow, 0, t.Len())
	for _, row := range records(t, opts) {
		out = append(out, jsonRow{keys: cols, values: row})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Recipients joins the email column of the selected candidates with commas,
// in rank order, for pasting into a Bcc field. Candidates without an email
// are skipped.
func Recipients(t *matching.Table, selected []string, emailColumn string) string {
	chosen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		chosen[id] = struct{}{}
	}

	emails := make([]string, 0, len(selected))
	for _, rec := range t.Rows {
		if _, ok := chosen[rec.Candidate.ID]; !ok {
			continue
		}
		if email, _ := rec.Candidate.Attribute(emailColumn); strings.TrimSpace(email) != "" {
			emails = append(emails, strings.TrimSpace(email))
		}
	}
	return strings.Join(emails, ",")
}
