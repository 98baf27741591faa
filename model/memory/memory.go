package memory

import (
	"strings"

	"cmdjson/model/magnitude"
	"cmdjson/model/parseerr"
)

// Memory は free コマンドの一行分です。
//
// BuffCache is mutually exclusive with Buffers and Cache: free prints either
// a buff/cache column or, with -w, separate buffers and cache columns.
type Memory struct {
	Type      string  `json:"type"`
	Total     uint64  `json:"total"`
	Used      uint64  `json:"used"`
	Free      uint64  `json:"free"`
	Shared    *uint64 `json:"shared,omitempty"`
	BuffCache *uint64 `json:"buff_cache,omitempty"`
	Buffers   *uint64 `json:"buffers,omitempty"`
	Cache     *uint64 `json:"cache,omitempty"`
	Available *uint64 `json:"available,omitempty"`
}

// ParseFreeCommandResultToMemory parses the output of free. The first line
// holds the column names, every following non-empty line is
// `Label: value value ...`. The first line is taken as is, even when it is
// blank, so output with leading blank lines fails on its header row.
//
// Values are paired with column names by position and pairing stops at the
// shorter of the two, so the Swap row of the default output only fills
// total, used and free.
func ParseFreeCommandResultToMemory(result string) ([]Memory, error) {
	all := strings.Split(result, "\n")
	var lines []string
	for _, l := range all[1:] {
		l = strings.TrimSuffix(l, "\r")
		if l != "" {
			lines = append(lines, l)
		}
	}
	header := strings.TrimSuffix(all[0], "\r")
	if header == "" && len(lines) == 0 {
		return nil, parseerr.Empty()
	}

	// ヘッダーの空白は一つずつ区切って空のトークンを捨てる。
	columns := splitSpaces(header)

	m := make([]Memory, 0, len(lines))
	for i, line := range lines {
		label, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, parseerr.Missing(i, line)
		}

		memory := Memory{Type: strings.TrimSpace(label)}
		values := splitSpaces(rest)
		for j := 0; j < len(columns) && j < len(values); j++ {
			if err := memory.set(columns[j], values[j], i); err != nil {
				return nil, err
			}
		}
		m = append(m, memory)
	}

	return m, nil
}

func splitSpaces(s string) []string {
	var tokens []string
	for _, t := range strings.Split(s, " ") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func (m *Memory) set(column, value string, row int) error {
	var opt **uint64
	switch column {
	case "total", "used", "free":
	case "shared":
		opt = &m.Shared
	case "buff/cache":
		opt = &m.BuffCache
	case "buffers":
		opt = &m.Buffers
	case "cache":
		opt = &m.Cache
	case "available":
		opt = &m.Available
	default:
		return nil
	}

	n, err := magnitude.Parse(value, magnitude.Mixed)
	if err != nil {
		return parseerr.Field(column, row, value, err)
	}

	switch column {
	case "total":
		m.Total = n
	case "used":
		m.Used = n
	case "free":
		m.Free = n
	default:
		*opt = &n
	}
	return nil
}
