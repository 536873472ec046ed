package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// conditionJSON is the wire form of a Condition.
type conditionJSON struct {
	Operator Operator `json:"operator,omitempty"`
	Text     string   `json:"text,omitempty"`
	Values   []string `json:"values,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// MarshalJSON renders the condition in its object wire form.
func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionJSON{
		Operator: c.op,
		Text:     c.text,
		Values:   c.values,
		Min:      c.min,
		Max:      c.max,
	})
}

// UnmarshalJSON accepts three wire shapes: a bare string or number
// (equality), an array of strings or numbers (set membership), or an
// object with operator/text/min/max. An object without an operator
// defaults to eq.
func (c *Condition) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode filter condition: %w", err)
	}

	switch v := raw.(type) {
	case string:
		*c = Eq(v)
		return nil
	case json.Number:
		*c = Eq(v.String())
		return nil
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				values = append(values, s)
			case json.Number:
				values = append(values, s.String())
			default:
				return fmt.Errorf("filter condition list values must be strings or numbers")
			}
		}
		*c = In(values...)
		return nil
	case map[string]any:
		var obj conditionJSON
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode filter condition object: %w", err)
		}
		if obj.Operator == "" {
			obj.Operator = OpEq
		}
		*c = Raw(obj.Operator, obj.Text, obj.Values, obj.Min, obj.Max)
		return nil
	default:
		return fmt.Errorf("unsupported filter condition shape")
	}
}
