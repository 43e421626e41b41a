package log

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of an entry. Higher values are more severe.
type Level int32

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

// Off disables every level.
const Off = Fatal + 1

var levelNames = map[Level]string{
	Trace: "TRACE",
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	Fatal: "FATAL",
}

// ErrInvalidLevel is returned when a level name is not recognised.
var ErrInvalidLevel = errors.New("invalid log level")

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	if l == Off {
		return "OFF"
	}
	return "UNKNOWN"
}

// ParseLevel maps a case-insensitive level name to a Level. Unknown names
// return Info together with ErrInvalidLevel.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	if name == "OFF" {
		return Off, nil
	}
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return Info, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// UnmarshalText lets config decoders read a level straight from the
// environment.
func (l *Level) UnmarshalText(text []byte) error {
	lvl, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Enables reports whether a logger at level l emits entries at target.
func (l Level) Enables(target Level) bool {
	return target >= l && target <= Fatal
}
