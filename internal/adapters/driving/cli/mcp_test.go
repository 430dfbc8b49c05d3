package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCPCmd_Flags(t *testing.T) {
	flag := mcpCmd.Flags().Lookup("port")

	if assert.NotNil(t, flag) {
		assert.Equal(t, "p", flag.Shorthand)
		assert.Equal(t, "0", flag.DefValue)
	}
}

func TestMCPCmd_RequiresDocument(t *testing.T) {
	setupCLI(t)

	assert.Error(t, execute("mcp"))
}

func TestMCPCmd_UnreadableDocument(t *testing.T) {
	setupCLI(t)

	err := execute("mcp", t.TempDir())

	assert.Error(t, err, "a directory is not a document")
}
