package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal_ExitRawWithoutEnter(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewTerminal().ExitRaw())
}
