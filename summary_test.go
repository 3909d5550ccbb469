package mlgw

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	g, _ := newTestGenerator(t)
	var buf bytes.Buffer
	require.NoError(t, g.Summary(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "###### Summary for MLGW model ######\n"))
	assert.Contains(t, out, "Grid size:     61\n")
	assert.Contains(t, out, "Minimum time:  0.5 s/M_sun\n")
	assert.Contains(t, out, "## Model for Amplitude")
	assert.Contains(t, out, "## Model for Phase")
	assert.Equal(t, 2, strings.Count(out, "#PCs:          2\n"))
	assert.Contains(t, out, "#Experts:      1\n")
	assert.Equal(t, 2, strings.Count(out, "#Features:     3\n"))
}

func TestWriteSummaryAppends(t *testing.T) {
	g, hook := newTestGenerator(t)
	target := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, g.WriteSummary(target))
	require.NoError(t, g.WriteSummary(target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Summary for MLGW model"))
	assert.Equal(t, 0, countLevel(hook, logrus.WarnLevel))
}

func TestWriteSummaryFallsBackToStdout(t *testing.T) {
	g, hook := newTestGenerator(t)
	target := filepath.Join(t.TempDir(), "missing", "summary.txt")
	assert.NoError(t, g.WriteSummary(target))
	assert.Equal(t, 1, countLevel(hook, logrus.WarnLevel))
	assert.NoFileExists(t, target)
}
