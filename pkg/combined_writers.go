package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes to every writer, even when some of them fail.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

// Write reports len(p) if at least one writer took everything, and the
// combined errors of the failing ones.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	n := 0
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if written > n {
			n = written
		}
	}
	return n, err
}
