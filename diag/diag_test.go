package diag_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/hpccg/diag"
)

func TestNop(t *testing.T) {
	d := diag.Nop()
	d.MatrixGenerated(0, 1, 8, 64, 8)
	d.DumpMatrix(0, 1, []diag.Entry{{Row: 0, Col: 0, Value: 27}})
	assert.False(t, d.Dumping())
}

func TestZap_RankZeroOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := diag.NewZap(zap.New(core))

	d.MatrixGenerated(0, 2, 125, 2197, 250)
	d.MatrixGenerated(1, 2, 125, 2197, 250)
	d.Iteration(1, 2, 15, 0.5)

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "Matrix generated", e.Message)
	fields := e.ContextMap()
	assert.EqualValues(t, 0, fields["rank"])
	assert.EqualValues(t, 2, fields["size"])
	assert.EqualValues(t, 2197, fields["local_nnz"])
}

func TestZap_AllRanks(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := diag.NewZap(zap.New(core), diag.WithAllRanks())

	for r := 0; r < 3; r++ {
		d.ExternalsResolved(r, 3, 4, 1, 4)
	}
	d.Converged(2, 3, 149, 1e-9, time.Second)

	require.Equal(t, 4, logs.Len())
	assert.Equal(t, 3, logs.FilterMessage("Externals resolved").Len())
	last := logs.All()[3].ContextMap()
	assert.EqualValues(t, 2, last["rank"])
	assert.EqualValues(t, 149, last["iterations"])
}

func TestZap_DumpNeedsDebug(t *testing.T) {
	entries := []diag.Entry{{Row: 0, Col: 0, Value: 27}, {Row: 0, Col: 1, Value: -1}}

	info, infoLogs := observer.New(zapcore.InfoLevel)
	d := diag.NewZap(zap.New(info))
	assert.False(t, d.Dumping())
	d.DumpMatrix(0, 1, entries)
	assert.Zero(t, infoLogs.Len())

	debug, debugLogs := observer.New(zapcore.DebugLevel)
	d = diag.NewZap(zap.New(debug))
	assert.True(t, d.Dumping())
	d.DumpMatrix(0, 1, entries)
	require.Equal(t, 2, debugLogs.Len())
	assert.EqualValues(t, -1.0, debugLogs.All()[1].ContextMap()["value"])
}

func TestZap_NilLogger(t *testing.T) {
	d := diag.NewZap(nil)
	d.Iteration(0, 1, 1, 1)
	assert.False(t, d.Dumping())
}
