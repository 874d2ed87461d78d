package memo

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Writer appends memo lines to a text log
type Writer struct {
	file string
	now  func() time.Time
}

// NewWriter creates the memo writer
func NewWriter(file string) (*Writer, error) {
	if strings.TrimSpace(file) == "" {
		return nil, fmt.Errorf("no memo file")
	}
	goapp.Log.Info().Str("file", file).Msg("memo log")
	return &Writer{file: file, now: time.Now}, nil
}

// Append writes `<time> | <text>` line to the log
func (w *Writer) Append(text string) error {
	f, err := os.OpenFile(w.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("can't open %s: %w", w.file, err)
	}
	_, err = fmt.Fprintf(f, "%s | %s\n", w.now().UTC().Format(timeLayout), text)
	if errC := f.Close(); err == nil && errC != nil {
		err = errC
	}
	if err != nil {
		return fmt.Errorf("can't write memo: %w", err)
	}
	return nil
}
