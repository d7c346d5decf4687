package workers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regtest-workers/btc-trader/entities"
)

func fixtureResult(t *testing.T) *entities.ReconciliationResult {
	return &entities.ReconciliationResult{
		Txid:          testTxid,
		InputAddress:  inputAddress,
		InputAmount:   amt(t, 50),
		OutputAddress: payeeAddress,
		OutputAmount:  amt(t, 20),
		ChangeAddress: changeAddress,
		ChangeAmount:  amt(t, 29.9999),
		Fee:           amt(t, 0.0001),
		BlockHeight:   102,
		BlockHash:     confirmHash,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.True(t, strings.HasSuffix(content, "\n"), "report must end with a newline")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func TestWriteReportTenLinesFixedOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteReport(path, fixtureResult(t)))

	lines := readLines(t, path)
	require.Len(t, lines, 10)
	assert.Equal(t, []string{
		testTxid,
		inputAddress,
		"50",
		payeeAddress,
		"20",
		changeAddress,
		"29.9999",
		"0.0001",
		"102",
		confirmHash,
	}, lines)
}

func TestWriteReportKeepsTenLinesWithDefaultedFields(t *testing.T) {
	res := fixtureResult(t)
	res.ChangeAddress = ""
	res.ChangeAmount = 0
	res.InputAddress = ""

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteReport(path, res))

	lines := readLines(t, path)
	require.Len(t, lines, 10)
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "", lines[5])
	assert.Equal(t, "0", lines[6])
}

func TestWriteReportOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale content\nfrom a previous run\n"), 0644))

	require.NoError(t, WriteReport(path, fixtureResult(t)))

	lines := readLines(t, path)
	require.Len(t, lines, 10)
	assert.Equal(t, testTxid, lines[0])
}

func TestReporterExecuteRequiresResult(t *testing.T) {
	stage := NewReporter(testConfig(), newFakeNode(), testLogger())
	err := stage.Execute(&State{})
	require.Error(t, err)
}

func TestReporterExecuteWritesConfiguredPath(t *testing.T) {
	cfg := testConfig()
	cfg.ReportPath = filepath.Join(t.TempDir(), "out.txt")
	stage := NewReporter(cfg, newFakeNode(), testLogger())

	require.NoError(t, stage.Execute(&State{Result: fixtureResult(t)}))
	lines := readLines(t, cfg.ReportPath)
	assert.Len(t, lines, 10)
}

func TestFormatAmountTrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "50", FormatAmount(amt(t, 50)))
	assert.Equal(t, "29.9999", FormatAmount(amt(t, 29.9999)))
	assert.Equal(t, "0.0001", FormatAmount(amt(t, 0.0001)))
	assert.Equal(t, "0", FormatAmount(0))
}
