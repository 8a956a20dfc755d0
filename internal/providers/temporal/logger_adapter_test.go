package temporal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestKeyvalsToFields(t *testing.T) {
	fields := keyvalsToFields([]interface{}{"a", 1, 2, "b", "err", errors.New("boom"), "dangling"})
	require.Len(t, fields, 4)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "2", fields[1].Key)
	assert.Equal(t, "err", fields[2].Key)
	assert.Equal(t, "extra", fields[3].Key)

	assert.Empty(t, keyvalsToFields(nil))
}

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapLoggerAdapter(zap.New(core))

	l.Info("started", "WorkflowID", "wf-1")
	l.(*ZapLoggerAdapter).With("Attempt", 2).Warn("retrying")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "started", entries[0].Message)
	assert.Equal(t, "wf-1", entries[0].ContextMap()["WorkflowID"])
	assert.Equal(t, "temporal", entries[0].LoggerName)
	assert.Equal(t, int64(2), entries[1].ContextMap()["Attempt"])
}
