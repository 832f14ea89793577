package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
)

// EnumValue is the numeric value of an enumerant. The grammar writes
// ValueEnum values as JSON numbers but BitEnum values as hex strings like
// "0x0004", so both spellings decode to the same number.
type EnumValue uint32

func (v *EnumValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return errors.Wrapf(errMalformedGrammar, "enumerant value %q is not a 32-bit number", s)
		}
		*v = EnumValue(n)
		return nil
	}

	var n uint32
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrapf(errMalformedGrammar, "enumerant value %s is neither a number nor a numeric string", b)
	}
	*v = EnumValue(n)
	return nil
}

func (v EnumValue) String() string {
	return fmt.Sprintf("0x%08x", uint32(v))
}
