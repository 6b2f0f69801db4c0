package config

import "github.com/heuermh/osc-looper/internal/transport"

// MIDI selects the input port recorded from and the ports loops play to.
type MIDI struct {
	Input   string         `yaml:"input" env:"INPUT"`
	Target  transport.Mode `yaml:"target" env:"TARGET"`
	Outputs []string       `yaml:"outputs,omitempty" env:"OUTPUTS" envSeparator:","`
	SysEx   bool           `yaml:"sysex" env:"SYSEX"`
}

// Log configures the process logger.
type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// Config represents the looper.yaml file.
type Config struct {
	MIDI MIDI `yaml:"midi" envPrefix:"MIDI_"`
	Log  Log  `yaml:"log" envPrefix:"LOG_"`
}

// Target returns the send target described by the midi section.
func (c *Config) Target() transport.Target {
	return transport.Target{Mode: c.MIDI.Target, Names: c.MIDI.Outputs}
}
