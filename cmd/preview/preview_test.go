package preview_test

import (
	"testing"

	"mcafin/xbrl-xlsx/cmd/preview"

	"github.com/stretchr/testify/assert"
)

func TestPreviewCommandMetadata(t *testing.T) {
	assert.Equal(t, "preview", preview.Cmd.Use)
	assert.Contains(t, preview.Cmd.Short, "JSON")
	assert.NotNil(t, preview.Cmd.Run)
}

func TestPreviewCommandLongDescription(t *testing.T) {
	assert.Contains(t, preview.Cmd.Long, "exits non-zero")
	assert.Contains(t, preview.Cmd.Long, "Example")
}
