// Package transporters holds log.Transporter implementations.
package transporters

import (
	"encoding/json"
	"io"
	"os"

	"xembed/pkg/log"
)

// Stdout writes one JSON object per line.
type Stdout struct {
	enc *json.Encoder
}

func NewStdout() *Stdout {
	return NewStdoutWithWriter(os.Stdout)
}

// NewStdoutWithWriter targets any writer; tests pass a bytes.Buffer.
func NewStdoutWithWriter(w io.Writer) *Stdout {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Stdout{enc: enc}
}

func (s *Stdout) Name() string { return "stdout" }

func (s *Stdout) Write(entry log.Entry) error {
	return s.enc.Encode(entry)
}

func (s *Stdout) Close() error { return nil }
