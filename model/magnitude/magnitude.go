// Package magnitude turns human-readable sizes such as "12K", "1.5Gi" or
// "42%" into integers.
//
// free and df disagree on what a suffix means, so every call names the
// Table to resolve suffixes with. Using the wrong table does not fail, it
// silently produces a different number.
package magnitude

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"cmdjson/model/parseerr"
)

// Suffix is a unit suffix and the value it multiplies by.
type Suffix struct {
	Text       string
	Multiplier uint64
}

// Table is an ordered list of suffixes. The first suffix the token ends with
// wins, so longer suffixes must come before shorter ones they end with.
type Table struct {
	Name     string
	Suffixes []Suffix
	// Percent allows a trailing '%' on the number.
	Percent bool
}

// Binary is the df table. df -h prints single-letter suffixes that mean
// powers of 1024 (-h is assumed over --si).
var Binary = Table{
	Name: "binary",
	Suffixes: []Suffix{
		{"B", 1},
		{"K", 1 << 10},
		{"M", 1 << 20},
		{"G", 1 << 30},
		{"T", 1 << 40},
		{"P", 1 << 50},
	},
	Percent: true,
}

// Mixed is the free table: two-letter suffixes are powers of 1024,
// single-letter ones are powers of 1000.
var Mixed = Table{
	Name: "mixed",
	Suffixes: []Suffix{
		{"Ki", 1 << 10},
		{"Mi", 1 << 20},
		{"Gi", 1 << 30},
		{"Ti", 1 << 40},
		{"Pi", 1 << 50},
		{"B", 1},
		{"K", 1e3},
		{"M", 1e6},
		{"G", 1e9},
		{"T", 1e12},
		{"P", 1e15},
	},
}

// Parse resolves token against table. The number before the suffix may be
// fractional; the product is truncated toward zero.
func Parse(token string, table Table) (uint64, error) {
	num, mul := token, uint64(1)
	for _, s := range table.Suffixes {
		if strings.HasSuffix(num, s.Text) {
			num = strings.TrimSuffix(num, s.Text)
			mul = s.Multiplier
			break
		}
	}

	if table.Percent {
		num = strings.TrimRight(num, "%")
	}

	f, err := strconv.ParseFloat(num, 64)
	if err == nil && isHex(num) {
		err = errHexFloat
	}
	if err != nil {
		return 0, errors.WithStack(&parseerr.NumberFormatError{Token: token, Table: table.Name, Err: err})
	}

	return saturate(f * float64(mul)), nil
}

// errHexFloat rejects hexadecimal floats such as "0x1p4"; ParseFloat
// accepts them but no size column is ever printed in that form.
var errHexFloat = errors.New("hexadecimal numbers are not accepted")

func isHex(num string) bool {
	num = strings.TrimLeft(num, "+-")
	return strings.HasPrefix(num, "0x") || strings.HasPrefix(num, "0X")
}

// saturate converts like a saturating cast: NaN and negatives become 0,
// anything past the range becomes MaxUint64.
func saturate(f float64) uint64 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxUint64:
		return math.MaxUint64
	}
	return uint64(f)
}

// Format renders n as IEC bytes, for log output.
func Format(n uint64) string {
	return humanize.IBytes(n)
}
