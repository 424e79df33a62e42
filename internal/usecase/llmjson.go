package usecase

import (
	"encoding/json"
	"strings"
)

// stripCodeFence removes a markdown code-fence wrapper from a model reply.
// Replies arrive either as ```json ... ```, as plain ``` ... ```, or bare.
func stripCodeFence(raw string) string {
	clean := strings.TrimSpace(raw)

	marker := ""
	switch {
	case strings.Contains(clean, "```json"):
		marker = "```json"
	case strings.Contains(clean, "```"):
		marker = "```"
	default:
		return clean
	}

	clean = clean[strings.Index(clean, marker)+len(marker):]
	if i := strings.LastIndex(clean, "```"); i >= 0 {
		clean = clean[:i]
	}

	return strings.TrimSpace(clean)
}

// looseString decodes a JSON value expected to be a string. Absent or
// wrongly-typed values collapse to the empty string instead of failing the
// surrounding document.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = looseString(v)
	return nil
}

// looseInt decodes a JSON number, truncating fractional values toward zero.
// Non-numeric values collapse to zero.
type looseInt int

func (n *looseInt) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	*n = looseInt(int(v))
	return nil
}

// looseIndex decodes one entry of an ids array. Non-numeric entries are
// marked invalid so the caller can drop them rather than default them to an
// arbitrary position.
type looseIndex struct {
	value int
	valid bool
}

func (l *looseIndex) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		l.valid = false
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		l.valid = false
		return nil
	}
	l.value = int(v)
	l.valid = true
	return nil
}

// extractedItemDTO is the schema the extraction prompt asks the model for.
type extractedItemDTO struct {
	Title   looseString `json:"title"`
	Summary looseString `json:"summary"`
}

// unifiedGroupDTO is the schema the grouping prompt asks the model for.
// Title is a pointer so an absent field can fall back to a placeholder
// while an explicit empty string is kept as-is.
type unifiedGroupDTO struct {
	Title      *looseString `json:"title"`
	Summary    looseString  `json:"summary"`
	IDs        []looseIndex `json:"ids"`
	Importance looseInt     `json:"importance"`
}
