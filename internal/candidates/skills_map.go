package candidates

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SkillNames maps skill column names to display names, e.g. "Cestina" to
// "Čeština". A nil SkillNames leaves every name unchanged.
type SkillNames map[string]string

// LoadSkillsMap reads a JSON object of display name to column name.
func LoadSkillsMap(path string) (SkillNames, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding skills map: %w", err)
	}

	names := make(SkillNames, len(raw))
	for display, column := range raw {
		display, column = strings.TrimSpace(display), strings.TrimSpace(column)
		if display == "" || column == "" {
			return nil, fmt.Errorf("skills map entry %q -> %q: names must not be empty", display, column)
		}
		if prev, ok := names[column]; ok {
			return nil, fmt.Errorf("skills map: column %q is mapped by both %q and %q", column, prev, display)
		}
		names[column] = display
	}
	return names, nil
}

// Display returns the display name of a skill column.
func (n SkillNames) Display(column string) string {
	if display, ok := n[column]; ok {
		return display
	}
	return column
}

// Column resolves a display name back to its column. Unknown names are
// returned as given so plain column names keep working.
func (n SkillNames) Column(name string) string {
	for column, display := range n {
		if display == name {
			return column
		}
	}
	return name
}
