package cli

import (
	"testing"

	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/heuermh/osc-looper/internal/testutil"
)

// useDriver makes commands open d instead of the system driver.
func useDriver(t *testing.T, d *testutil.FakeDriver) {
	t.Helper()
	old := openDriver
	openDriver = func() (drivers.Driver, error) { return d, nil }
	t.Cleanup(func() { openDriver = old })
}
