package log

// Transporter delivers entries to a destination such as stdout or a file.
// Write is only ever called from the buffer's single worker goroutine.
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}

type nopTransporter struct{}

func (nopTransporter) Name() string      { return "nop" }
func (nopTransporter) Write(Entry) error { return nil }
func (nopTransporter) Close() error      { return nil }
