package batch_test

import (
	"testing"

	"mcafin/xbrl-xlsx/cmd/batch"

	"github.com/stretchr/testify/assert"
)

func TestBatchCommandMetadata(t *testing.T) {
	assert.Equal(t, "batch", batch.Cmd.Use)
	assert.Contains(t, batch.Cmd.Short, "Batch process")
	assert.NotNil(t, batch.Cmd.Run)
}

func TestBatchCommandLongDescription(t *testing.T) {
	assert.Contains(t, batch.Cmd.Long, "input directory")
	assert.Contains(t, batch.Cmd.Long, "Example")
}
