package log

import (
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"trace", Trace, false},
		{"DEBUG", Debug, false},
		{" info ", Info, false},
		{"warning", Warn, false},
		{"Warn", Warn, false},
		{"error", Error, false},
		{"fatal", Fatal, false},
		{"off", Off, false},
		{"loud", Info, true},
		{"", Info, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("error should wrap ErrInvalidLevel, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("debug")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l != Debug {
		t.Errorf("got %v, want DEBUG", l)
	}

	if err := l.UnmarshalText([]byte("nope")); err == nil {
		t.Error("expected error for unknown level")
	}
	if l != Debug {
		t.Errorf("level changed on error: %v", l)
	}
}

func TestLevel_Enables(t *testing.T) {
	if !Info.Enables(Error) {
		t.Error("Info should enable Error")
	}
	if Info.Enables(Debug) {
		t.Error("Info should not enable Debug")
	}
	if Off.Enables(Fatal) {
		t.Error("Off should enable nothing")
	}
}

func TestLevel_String(t *testing.T) {
	if Warn.String() != "WARN" || Off.String() != "OFF" || Level(42).String() != "UNKNOWN" {
		t.Errorf("unexpected names: %s %s %s", Warn, Off, Level(42))
	}
}
