package matching

// Candidate is one person in the pool. Presence and Levels must hold an
// entry for every requested skill; Attributes carry identity and display
// values and are never interpreted by the engine.
type Candidate struct {
	ID         string             `json:"id"`
	Attributes map[string]string  `json:"attributes,omitempty"`
	Presence   map[string]float64 `json:"presence"`
	Levels     map[string]string  `json:"levels"`
}

// Attribute returns a display attribute.
func (c *Candidate) Attribute(name string) (string, bool) {
	if c.Attributes == nil {
		return "", false
	}
	v, ok := c.Attributes[name]
	return v, ok
}

// HasSkill reports whether the presence flag for skill is set.
func (c *Candidate) HasSkill(skill string) bool {
	return c.Presence[skill] == 1
}
