// Package df parses the output of GNU df into records.
//
// df pads its columns with spaces and the widths change with every run, so
// the column boundaries are not known up front. They are recovered from the
// input itself: an offset is a column start if every line, header included,
// has a space there. This is a heuristic. A column that happens to be blank
// in every row produces an extra boundary, and no hardcoded header list is
// used to correct it because real df output differs between versions and
// locales.
package df

import (
	"math"
	"strings"

	"cmdjson/model/magnitude"
	"cmdjson/model/parseerr"
)

// sentinel is the right edge of the last column.
const sentinel = math.MaxInt / 2

// Record is one df data row. A field is non-nil iff its column header was in
// the header line.
type Record struct {
	Filesystem  *string `json:"filesystem,omitempty"`
	Type        *string `json:"type,omitempty"`
	Inodes      *uint64 `json:"inodes,omitempty"`
	IUsed       *uint64 `json:"iused,omitempty"`
	IFree       *uint64 `json:"ifree,omitempty"`
	IUsePercent *uint64 `json:"iuse_percent,omitempty"`
	KibiBlocks  *uint64 `json:"1k_blocks,omitempty"`
	Size        *uint64 `json:"size,omitempty"`
	Used        *uint64 `json:"used,omitempty"`
	Available   *uint64 `json:"available,omitempty"`
	UsePercent  *uint64 `json:"use_percent,omitempty"`
	File        *string `json:"file,omitempty"`
	MountedOn   *string `json:"mounted_on,omitempty"`
}

// Bytes returns the filesystem size in bytes: Size when df printed it, or
// 1K-blocks times 1024. ok is false when neither column was present.
func (r Record) Bytes() (n uint64, ok bool) {
	switch {
	case r.Size != nil:
		return *r.Size, true
	case r.KibiBlocks != nil:
		return *r.KibiBlocks * 1024, true
	}
	return 0, false
}

// Lines splits input into its non-empty lines.
func Lines(input string) []string {
	var lines []string
	for _, l := range strings.Split(input, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// Boundaries returns the column start offsets of lines followed by the
// sentinel. lines[0] is the header.
func Boundaries(lines []string) []int {
	header := lines[0]
	b := []int{0}
	for i := 1; i < len(header); i++ {
		if blankAt(lines, i) {
			b = append(b, i)
		}
	}
	return append(b, sentinel)
}

func blankAt(lines []string, i int) bool {
	for _, l := range lines {
		if i >= len(l) || l[i] != ' ' {
			return false
		}
	}
	return true
}

// cell returns the trimmed text of line between start and end, clamped to
// the line's length.
func cell(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[start:min(end, len(line))])
}

// Parse parses df output. The first non-empty line is the header, every
// following non-empty line becomes one Record, in order.
func Parse(input string) ([]Record, error) {
	lines := Lines(input)
	if len(lines) == 0 {
		return nil, parseerr.Empty()
	}
	header := lines[0]
	bounds := Boundaries(lines)

	records := make([]Record, 0, len(lines)-1)
	for row := 1; row < len(lines); row++ {
		line := lines[row]
		var r Record

		for i := 0; i+1 < len(bounds); i++ {
			start, end := bounds[i], bounds[i+1]
			key := cell(header, start, end)
			value := cell(line, start, end)

			if err := r.set(key, value, row); err != nil {
				return nil, err
			}
		}

		records = append(records, r)
	}

	return records, nil
}

// set stores value in the field named by the header key. Unknown keys are
// ignored.
func (r *Record) set(key, value string, row int) error {
	var (
		field string
		dst   **uint64
	)

	switch key {
	case "Filesystem":
		r.Filesystem = &value
		return nil
	case "Type":
		r.Type = &value
		return nil
	case "File":
		r.File = &value
		return nil
	case "Mounted on":
		r.MountedOn = &value
		return nil
	case "Inodes":
		field, dst = "inodes", &r.Inodes
	case "IUsed":
		field, dst = "iused", &r.IUsed
	case "IFree":
		field, dst = "ifree", &r.IFree
	case "IUse%":
		field, dst = "iuse_percent", &r.IUsePercent
	case "1K-blocks", "1024-blocks":
		field, dst = "1k_blocks", &r.KibiBlocks
	case "Size":
		field, dst = "size", &r.Size
	case "Used":
		field, dst = "used", &r.Used
	// TODO: check Avail/Available against df --output=avail on a filesystem
	// with reserved blocks; the mapping is kept as is until then.
	case "Avail", "Available":
		field, dst = "available", &r.Available
	case "Use%":
		field, dst = "use_percent", &r.UsePercent
	default:
		return nil
	}

	n, err := magnitude.Parse(value, magnitude.Binary)
	if err != nil {
		return parseerr.Field(field, row, value, err)
	}
	*dst = &n
	return nil
}
