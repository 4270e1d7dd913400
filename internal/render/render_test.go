package render

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-guard/internal/diff"
	"github.com/address-guard/internal/fingerprint"
	"github.com/address-guard/internal/service"
	"github.com/address-guard/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestDiffMarksEveryMismatch(t *testing.T) {
	var buf bytes.Buffer
	cells := diff.Compare("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "1A1zP2eP5QGefi2DMPTfTL5SLmv7DivfNb", false)
	Diff(&buf, DefaultColorScheme(), cells)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  1A1zP2eP5QGefi2DMPTfTL5SLmv7DivfNb", lines[0])
	assert.Equal(t, "       ^"+strings.Repeat(" ", 27)+"^", lines[1])
}

func TestDiffSummary(t *testing.T) {
	cs := DefaultColorScheme()

	var buf bytes.Buffer
	DiffSummary(&buf, cs, "abc", "abc", diff.Compare("abc", "abc", false))
	assert.Contains(t, buf.String(), "IDENTICAL")

	buf.Reset()
	DiffSummary(&buf, cs, "ABC", "abc", diff.Compare("ABC", "abc", true))
	assert.Contains(t, buf.String(), "ignoring case")

	buf.Reset()
	DiffSummary(&buf, cs, "abc", "abd", diff.Compare("abc", "abd", false))
	assert.Contains(t, buf.String(), "1 MISMATCH(ES) at positions [2]")
}

func TestGridDimensions(t *testing.T) {
	fp, err := fingerprint.Generate("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	Grid(&buf, fp)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 2+4*2, len([]rune(line)))
	}
	// first cell is 0xb = 11: odd, so drawn shrunk
	assert.True(t, strings.HasPrefix(lines[0], "  ▪▪"))
}

func TestResult(t *testing.T) {
	fp, err := fingerprint.Generate("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", 8)
	require.NoError(t, err)

	label := "treasury"
	res := &service.Result{
		Check: types.AddressCheck{
			Address: "0x52908400098527886E0F7030069857D2E4169EE7",
			Network: types.NetworkEVM,
			Prefix:  "0x5290",
			Middle:  "8400098527886E0F7030069857D2E4",
			Suffix:  "169EE7",
		},
		Valid:       true,
		TrustScore:  85,
		Fingerprint: fp,
		Lookalikes: []service.Lookalike{{
			Address: "0x5290" + strings.Repeat("1", 30) + "169EE7",
			Label:   &label,
		}},
		UnlockHint: "EE7",
	}

	var buf bytes.Buffer
	Result(&buf, DefaultColorScheme(), res)
	out := buf.String()

	assert.Contains(t, out, "Ethereum / EVM")
	assert.Contains(t, out, "0x52908400098527886E0F7030069857D2E4169EE7")
	assert.Contains(t, out, "85/100")
	assert.Contains(t, out, "[UNI] [🔥] [STAR] [UNI]")
	assert.Contains(t, out, "WARNING: looks like trusted address 0x5290…169EE7 (treasury)")
	assert.Contains(t, out, "…EE7")
}

func TestTrustListAndHistory(t *testing.T) {
	cs := DefaultColorScheme()

	var buf bytes.Buffer
	TrustList(&buf, cs, nil)
	assert.Contains(t, buf.String(), "Trusted addresses (0)")
	assert.Contains(t, buf.String(), "(none)")

	buf.Reset()
	History(&buf, cs, []types.AddressCheck{
		{Prefix: "1A1zP1", Middle: "eP5QGefi2DMPTfTL5SLmv7Di", Suffix: "vfNa", Network: types.NetworkBitcoinLegacy},
		{Prefix: "zzzzzz", Middle: "zzzzzzzz", Suffix: "zzzzzz", Network: types.NetworkUnknown, IsSuspicious: true},
	})
	out := buf.String()
	assert.Contains(t, out, " 1. 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa  Bitcoin (Legacy)")
	assert.Contains(t, out, " 2. ")
	assert.Contains(t, out, "Unknown / Generic")
}
