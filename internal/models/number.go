package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LooseNumber accepts a JSON number, a numeric string, null or anything else.
// Values that do not parse read back as zero; decoding never fails.
type LooseNumber struct {
	raw string
}

func Number(v float64) LooseNumber {
	return LooseNumber{raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

func NumberString(s string) LooseNumber {
	return LooseNumber{raw: strings.TrimSpace(s)}
}

func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	n.raw = ""
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			n.raw = strings.TrimSpace(s)
		}
		return nil
	}
	n.raw = string(trimmed)
	return nil
}

func (n LooseNumber) MarshalJSON() ([]byte, error) {
	v, ok := n.parse()
	if !ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

func (n LooseNumber) IsSet() bool {
	_, ok := n.parse()
	return ok
}

func (n LooseNumber) Float() float64 {
	v, _ := n.parse()
	return v
}

func (n LooseNumber) Int() int {
	v, ok := n.parse()
	if !ok || v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(v)
}

func (n LooseNumber) parse() (float64, bool) {
	if n.raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
