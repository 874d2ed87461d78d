package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vgarvardt/gue/v5/adapter"
)

func TestGueLogAdapter_With(t *testing.T) {
	l := NewGueLoggerAdapter()
	l1 := l.With(adapter.Field{Key: "queue", Value: "PO/Inform"}).(*GueLogAdapter)
	l2 := l1.With(adapter.Field{Key: "job", Value: "1"}).(*GueLogAdapter)
	assert.Equal(t, 0, len(l.fields))
	assert.Equal(t, 1, len(l1.fields))
	assert.Equal(t, []adapter.Field{adapter.Field{Key: "queue", Value: "PO/Inform"}, adapter.Field{Key: "job", Value: "1"}}, l2.fields)
	l2.Info("msg")
	l2.Debug("msg")
	l2.Error("msg")
}
