package candidates

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spigell/skills-matcher/internal/matching"
)

// LoadFile loads a pool from a .csv or .json file.
func LoadFile(path, idColumn string) (*Pool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(file, idColumn)
	case ".json":
		return LoadJSON(file, idColumn)
	default:
		return nil, fmt.Errorf("unsupported candidates file %q: expected .csv or .json", path)
	}
}

// LoadCSV reads a header row followed by one row per candidate. A column
// S is a skill presence column when the header also has "S_level".
func LoadCSV(r io.Reader, idColumn string) (*Pool, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("candidates csv is empty")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	pool := &Pool{Columns: header, Skills: detectSkills(header)}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}

		record := make(map[string]string, len(header))
		for i, col := range header {
			record[col] = row[i]
		}

		c, err := fromRecord(record, pool.Skills, idColumn)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		pool.Candidates = append(pool.Candidates, c)
	}

	return pool, nil
}

// LoadJSON reads an array of flat objects shaped like CSV rows.
func LoadJSON(r io.Reader, idColumn string) (*Pool, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding candidates json: %w", err)
	}

	pool := &Pool{}
	seen := map[string]struct{}{}
	for _, obj := range raw {
		for _, k := range sortedKeys(obj) {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				pool.Columns = append(pool.Columns, k)
			}
		}
	}
	pool.Skills = detectSkills(pool.Columns)

	for i, obj := range raw {
		record := make(map[string]string, len(obj))
		for k, v := range obj {
			record[k] = stringify(v)
		}

		c, err := fromRecord(record, pool.Skills, idColumn)
		if err != nil {
			return nil, fmt.Errorf("candidate #%d: %w", i, err)
		}
		pool.Candidates = append(pool.Candidates, c)
	}

	return pool, nil
}

func fromRecord(record map[string]string, skills []string, idColumn string) (*matching.Candidate, error) {
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}

	id := strings.TrimSpace(record[idColumn])
	if id == "" {
		return nil, fmt.Errorf("missing value for id column %q", idColumn)
	}

	c := &matching.Candidate{
		ID:         id,
		Attributes: make(map[string]string, len(record)),
		Presence:   make(map[string]float64, len(skills)),
		Levels:     make(map[string]string, len(skills)),
	}

	skillColumns := make(map[string]struct{}, len(skills)*2)
	for _, skill := range skills {
		flag, err := parsePresence(record[skill])
		if err != nil {
			return nil, fmt.Errorf("skill %q: %w", skill, err)
		}
		c.Presence[skill] = flag
		c.Levels[skill] = strings.TrimSpace(record[matching.LevelColumn(skill)])
		skillColumns[skill] = struct{}{}
		skillColumns[matching.LevelColumn(skill)] = struct{}{}
	}

	for k, v := range record {
		if _, ok := skillColumns[k]; ok {
			continue
		}
		c.Attributes[k] = strings.TrimSpace(v)
	}
	c.Attributes[idColumn] = id

	return c, nil
}

// parsePresence accepts "0", "1", "0.0", "1.0", booleans and "" (absent).
func parsePresence(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "false":
		return 0, nil
	case "true":
		return 1, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("presence %q is not a number", raw)
	}
	return v, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
