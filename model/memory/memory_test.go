package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdjson/model/parseerr"
)

func u64(n uint64) *uint64 { return &n }

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestParseFreeCommandResultToMemory_Default(t *testing.T) {
	input := "              total        used        free      shared  buff/cache   available\n" +
		"Mem:       16288676     4108428     7520512      595104     4659736    11737372\n" +
		"Swap:       2097148           0     2097148\n"

	got, err := ParseFreeCommandResultToMemory(input)
	require.NoError(t, err)

	assert.Equal(t, []Memory{
		{
			Type:      "Mem",
			Total:     16288676,
			Used:      4108428,
			Free:      7520512,
			Shared:    u64(595104),
			BuffCache: u64(4659736),
			Available: u64(11737372),
		},
		{
			Type:  "Swap",
			Total: 2097148,
			Used:  0,
			Free:  2097148,
		},
	}, got)
}

func TestParseFreeCommandResultToMemory_Fixtures(t *testing.T) {
	mem := Memory{
		Type: "Mem", Total: 16288676, Used: 4108428, Free: 7520512,
		Shared: u64(595104), BuffCache: u64(4659736), Available: u64(11737372),
	}
	swap := Memory{Type: "Swap", Total: 2097148, Used: 0, Free: 2097148}

	tests := []struct {
		file string
		want []Memory
	}{
		{file: "no-args.txt", want: []Memory{mem, swap}},
		{
			file: "total.txt",
			want: []Memory{mem, swap, {Type: "Total", Total: 18385824, Used: 4108428, Free: 9617660}},
		},
		{
			file: "wide.txt",
			want: []Memory{
				{
					Type: "Mem", Total: 16288676, Used: 4108428, Free: 7520512,
					Shared: u64(595104), Buffers: u64(312044), Cache: u64(4347692), Available: u64(11737372),
				},
				swap,
			},
		},
		{
			file: "human.txt",
			want: []Memory{
				{
					Type: "Mem", Total: 16106127360, Used: 4187593113, Free: 7730941132,
					Shared: u64(609222656), BuffCache: u64(4724464025), Available: u64(11811160064),
				},
				{Type: "Swap", Total: 2147483648, Used: 0, Free: 2147483648},
			},
		},
		{
			file: "human-si.txt",
			want: []Memory{
				{
					Type: "Mem", Total: 16000000000, Used: 4200000000, Free: 7700000000,
					Shared: u64(609000000), BuffCache: u64(4800000000), Available: u64(12000000000),
				},
				{Type: "Swap", Total: 2100000000, Used: 0, Free: 2100000000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := ParseFreeCommandResultToMemory(readFixture(t, tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFreeCommandResultToMemory_BuffCacheExclusive(t *testing.T) {
	for _, file := range []string{"no-args.txt", "wide.txt", "human.txt"} {
		got, err := ParseFreeCommandResultToMemory(readFixture(t, file))
		require.NoError(t, err)
		for _, m := range got {
			if m.BuffCache != nil {
				assert.Nil(t, m.Buffers, file)
				assert.Nil(t, m.Cache, file)
			}
		}
	}
}

func TestParseFreeCommandResultToMemory_HeaderOnly(t *testing.T) {
	got, err := ParseFreeCommandResultToMemory("              total        used        free\n")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseFreeCommandResultToMemory_Empty(t *testing.T) {
	_, err := ParseFreeCommandResultToMemory("")
	var e *parseerr.EmptyInputError
	assert.True(t, errors.As(err, &e))
}

func TestParseFreeCommandResultToMemory_MissingDelimiter(t *testing.T) {
	input := "       total  used  free\n" +
		"Mem:     10     5     5\n" +
		"Swap     10     0    10\n"

	got, err := ParseFreeCommandResultToMemory(input)
	require.Error(t, err)
	assert.Nil(t, got)

	var e *parseerr.MissingDelimiterError
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Row)
}

func TestParseFreeCommandResultToMemory_BadNumber(t *testing.T) {
	input := "       total  used  free  shared\n" +
		"Mem:     10     5     5   lots\n"

	_, err := ParseFreeCommandResultToMemory(input)
	require.Error(t, err)

	var fe *parseerr.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "shared", fe.Field)
	assert.Equal(t, 0, fe.Row)
	assert.Equal(t, "lots", fe.Value)
	assert.Contains(t, err.Error(), "parse value 'lots' for `shared` on line 0")
}

func TestParseFreeCommandResultToMemory_ExtraValuesDropped(t *testing.T) {
	input := "  total used\n" +
		"Mem: 10 5 5 7 9\n"

	got, err := ParseFreeCommandResultToMemory(input)
	require.NoError(t, err)
	assert.Equal(t, []Memory{{Type: "Mem", Total: 10, Used: 5}}, got)
}

func TestParseFreeCommandResultToMemory_UnknownColumnIgnored(t *testing.T) {
	input := "  total used free swapped\n" +
		"Mem: 10 5 5 notanumber\n"

	got, err := ParseFreeCommandResultToMemory(input)
	require.NoError(t, err)
	assert.Equal(t, []Memory{{Type: "Mem", Total: 10, Used: 5, Free: 5}}, got)
}

func TestParseFreeCommandResultToMemory_LeadingBlankLine(t *testing.T) {
	input := "\n  total used free\nMem: 1 2 3\n"

	got, err := ParseFreeCommandResultToMemory(input)
	require.Error(t, err)
	assert.Nil(t, got)

	var e *parseerr.MissingDelimiterError
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 0, e.Row)
	assert.Equal(t, "  total used free", e.Line)
}
