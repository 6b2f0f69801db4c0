//go:build cgo

package midi

import (
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// NewDriver opens the system MIDI driver.
func NewDriver() (drivers.Driver, error) {
	d, err := rtmididrv.New()
	if err != nil {
		return nil, err
	}
	return d, nil
}
