package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// optionalNumber decodes a JSON number or a numeric string, as sent by HTML forms.
// null and blank strings leave it unset.
type optionalNumber struct {
	set   bool
	value float64
}

func (n *optionalNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var v float64
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		v = parsed
	} else if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	// Columns are 32-bit integers or small decimals.
	if math.IsNaN(v) || math.Abs(v) > math.MaxInt32 {
		return fmt.Errorf("number out of range: %s", data)
	}
	n.set, n.value = true, v
	return nil
}

// Int truncates toward zero. Nil when unset.
func (n optionalNumber) Int() *int {
	if !n.set {
		return nil
	}
	v := int(n.value)
	return &v
}

// Float returns nil when unset.
func (n optionalNumber) Float() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}
