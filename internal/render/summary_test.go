package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/confdrift/internal/render"
	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
)

func TestTemporalSummary(t *testing.T) {
	var buf bytes.Buffer

	render.TemporalSummary(&buf, sampleTemporal())

	output := buf.String()
	assert.Contains(t, output, "changes v1.0 -> v2.0: 1 environments")
	assert.Contains(t, output, "app.properties")
	assert.Contains(t, output, "file added")
}

func TestTemporalSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer

	render.TemporalSummary(&buf, &drift.TemporalResult{
		OldRevision:  "v1.0",
		NewRevision:  "v2.0",
		Environments: map[string]drift.EnvironmentReport{},
	})

	output := buf.String()
	assert.Contains(t, output, "0 environments")
	assert.NotContains(t, output, "Environment") // no table header
}

func TestCrossEnvSummary(t *testing.T) {
	var buf bytes.Buffer

	render.CrossEnvSummary(&buf, sampleCrossEnv())

	output := buf.String()
	assert.Contains(t, output, "drift pt vs prod at v2.0: 1 files")
	assert.Contains(t, output, "only.properties")
	assert.Contains(t, output, "file added")
}

func TestValueDiff(t *testing.T) {
	rendered := render.ValueDiff("pt-db01.internal", "pt-db02.internal")

	// The unchanged host prefix and suffix survive verbatim.
	assert.Contains(t, rendered, "pt-db0")
	assert.Contains(t, rendered, ".internal")
	assert.NotEqual(t, "pt-db01.internal", rendered)
}

func TestValueDiffIdenticalValues(t *testing.T) {
	assert.Equal(t, "same", render.ValueDiff("same", "same"))
}
