package candidates

import (
	"encoding/json"
	"os"
	"time"
)

// ExcludedCandidates is the content of an exclude file: candidates that
// must not appear in rankings again, e.g. because they were already contacted.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	ID         string
	Name       string
	Reason     string
	ExcludedAt time.Time
}

// ToExcluded converts the given candidates into exclude file entries.
func ToExcluded(ids []string, names map[string]string, reason string) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	now := time.Now().UTC()
	for _, id := range ids {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			ID:         id,
			Name:       names[id],
			Reason:     reason,
			ExcludedAt: now,
		})
	}
	return excluded
}

// GetExcludedFromFile reads an exclude file. An empty file yields no entries.
func GetExcludedFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries whose id is not already listed.
func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	known := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		known[item.ID] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := known[item.ID]; ok {
			continue
		}
		known[item.ID] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedCandidates) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// ToFile overwrites path with the entries.
func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
