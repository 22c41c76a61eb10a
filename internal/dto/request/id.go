package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

const maxNumericLen = 32

// ID is a slot or booking reference that clients may send either as a JSON
// number or as a JSON string. It always holds the canonical string form, so
// 1, 1.0, "1" and " 01 " all decode to "1".
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(Canonical(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(Canonical(n.String()))
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Canonical normalises an id reference. Integral numeric text is rendered in
// base 10 without sign noise or leading zeros; anything else is only trimmed.
func Canonical(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxNumericLen {
		return s
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok || !r.IsInt() || !looksNumeric(s) {
		return s
	}
	return r.Num().String()
}

// looksNumeric rejects forms big.Rat accepts that a client would not mean as a
// number, such as fractions ("1/1") and hex ("0x1").
func looksNumeric(s string) bool {
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == 'e' || c == 'E':
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		default:
			return false
		}
	}
	return true
}
