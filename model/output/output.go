// Package output writes parsed records as JSON.
package output

import (
	"encoding/json"
	"io"
	"reflect"

	"github.com/cockroachdb/errors"
)

// Encode writes v as a single JSON value followed by a newline. pretty
// selects two-space indentation. A nil slice is written as [].
func Encode(w io.Writer, v any, pretty bool) error {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		v = []struct{}{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return errors.WithStack(enc.Encode(v))
}
