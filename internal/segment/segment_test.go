package segment

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		address string
		prefix  int
		suffix  int
		want    Segments
	}{
		{
			name:    "evm address",
			address: "0x52908400098527886E0F7030069857D2E4169EE7",
			prefix:  6,
			suffix:  6,
			want:    Segments{Prefix: "0x5290", Middle: "8400098527886E0F7030069857D2E4", Suffix: "169EE7"},
		},
		{
			name:    "exactly prefix plus suffix is degenerate",
			address: "abcdefghijkl",
			prefix:  6,
			suffix:  6,
			want:    Segments{Prefix: "abcdefghijkl"},
		},
		{
			name:    "one longer than threshold",
			address: "abcdefghijklm",
			prefix:  6,
			suffix:  6,
			want:    Segments{Prefix: "abcdef", Middle: "g", Suffix: "hijklm"},
		},
		{
			name:    "empty",
			address: "",
			prefix:  6,
			suffix:  6,
			want:    Segments{},
		},
		{
			name:    "negative lengths clamp to zero",
			address: "abc",
			prefix:  -1,
			suffix:  -4,
			want:    Segments{Middle: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.address, tt.prefix, tt.suffix)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.address, got.String())
		})
	}
}

func TestMasked(t *testing.T) {
	assert.Equal(t, "0x5290…169EE7", Default("0x52908400098527886E0F7030069857D2E4169EE7").Masked())
	assert.Equal(t, "short", Default("short").Masked())
}

func TestSplitIsLossless(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("prefix+middle+suffix reconstructs any string", prop.ForAll(
		func(s string) bool {
			return Default(s).String() == s
		},
		gen.AnyString(),
	))

	properties.Property("lossless for arbitrary split lengths", prop.ForAll(
		func(s string, p, q int) bool {
			return Split(s, p, q).String() == s
		},
		gen.AlphaString(),
		gen.IntRange(-2, 20),
		gen.IntRange(-2, 20),
	))

	properties.TestingRun(t)
}
