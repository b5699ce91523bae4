package convert_test

import (
	"testing"

	"mcafin/xbrl-xlsx/cmd/convert"

	"github.com/stretchr/testify/assert"
)

func TestConvertCommandMetadata(t *testing.T) {
	assert.Equal(t, "convert", convert.Cmd.Use)
	assert.Contains(t, convert.Cmd.Short, "Excel report")
	assert.NotNil(t, convert.Cmd.Run)
}

func TestConvertCommandFlags(t *testing.T) {
	auditFlag := convert.Cmd.Flags().Lookup("audit-csv")
	assert.NotNil(t, auditFlag)
}

func TestConvertCommandLongDescription(t *testing.T) {
	assert.Contains(t, convert.Cmd.Long, "audit trail")
	assert.Contains(t, convert.Cmd.Long, "Example")
}
