package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestVerdict(t *testing.T) {
	assert.Equal(t, "trusted", Verdict(true, true))
	assert.Equal(t, "trusted", Verdict(false, true))
	assert.Equal(t, "valid", Verdict(true, false))
	assert.Equal(t, "suspicious", Verdict(false, false))
}

func TestAnalysesTotalLabels(t *testing.T) {
	c := AnalysesTotal.WithLabelValues("Solana", "valid")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
