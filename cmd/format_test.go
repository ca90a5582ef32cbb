package cmd

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/wxapis/metrics"
	"github.com/s0up4200/wxapis/models"
	"github.com/s0up4200/wxapis/node"
)

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, validateAddress("3P8qJyxUqizCWWtEn2zsLZVPzZAjdNGppB1"))

	assert.Error(t, validateAddress(""))
	assert.Error(t, validateAddress("0OIl"), "characters outside the base58 alphabet")
	assert.Error(t, validateAddress("DG2xFkPdDwKUoBkzGAhQtLpSGzfXLiCYPEzeKH2Ad24p"), "an asset id is not an address")
}

func TestValidateAssetIDs(t *testing.T) {
	assert.NoError(t, validateAssetIDs([]string{"WAVES", "DG2xFkPdDwKUoBkzGAhQtLpSGzfXLiCYPEzeKH2Ad24p"}))
	assert.Error(t, validateAssetIDs([]string{"WAVES", "short"}))
	assert.Error(t, validateID("transaction id", "3P8qJyxUqizCWWtEn2zsLZVPzZAjdNGppB1"))
}

func TestSummarizeCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)

	m.RecordRequest("node", "node::get_last_height")("ok")
	m.RecordRequest("node", "node::get_last_height")("ok")
	m.RecordRequest("state_service", "state_service::get_state")("override_404")

	families, err := reg.Gather()
	require.NoError(t, err)

	lines := summarizeCounters(families)
	require.Len(t, lines, 4, "two request series and two response series, histograms skipped")

	assert.Equal(t, "test_api_client_requests_total", lines[0].name)
	assert.Equal(t, "operation=node::get_last_height,service=node", lines[0].labels)
	assert.Equal(t, float64(2), lines[0].value)

	assert.Equal(t, "test_api_client_responses_total", lines[3].name)
	assert.Equal(t, "operation=state_service::get_state,outcome=override_404,service=state_service", lines[3].labels)
}

func TestFormatEvalValue(t *testing.T) {
	v := node.TupleValue{
		"_2": node.ArrayValue{node.IntValue(1), node.StringValue("a")},
		"_1": node.IntegerEntryValue{Key: "k", Value: 5},
	}
	assert.Equal(t, `(_1: IntegerEntry("k", 5), _2: [1, "a"])`, formatEvalValue(v))
}

func TestFormatDataValue(t *testing.T) {
	assert.Equal(t, "abc", formatDataValue(models.StringValue("abc")))
	assert.Equal(t, "-3", formatDataValue(models.IntegerValue(-3)))
	assert.Equal(t, "true", formatDataValue(models.BooleanValue(true)))
	assert.Equal(t, "base64:AQID", formatDataValue(models.BinaryValue{1, 2, 3}))
}

func TestWavesAmount(t *testing.T) {
	assert.Equal(t, "1.50000000", wavesAmount(decimal.NewFromInt(150000000)))
	assert.Equal(t, "0.00000001", wavesAmount(decimal.NewFromInt(1)))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"Key", "Value"}, [][]string{{"%s__price", "12"}})

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "%s__price")
	assert.Contains(t, out, "12")
}
