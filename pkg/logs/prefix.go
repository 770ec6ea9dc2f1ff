package logs

import (
	"bytes"
	"io"
)

type prefixer struct {
	prefix          string
	writer          io.Writer
	trailingNewline bool
	buf             bytes.Buffer
}

// NewPrefixer returns a writer that starts every line written to it with
// prefix. It is used to mark wire dumps as outgoing ("> ") or incoming ("< ").
func NewPrefixer(writer io.Writer, prefix string) io.Writer {
	return &prefixer{
		prefix:          prefix,
		writer:          writer,
		trailingNewline: true,
	}
}

func (pf *prefixer) Write(payload []byte) (int, error) {
	pf.buf.Reset()

	for _, b := range payload {
		if pf.trailingNewline {
			pf.buf.WriteString(pf.prefix)
			pf.trailingNewline = false
		}

		pf.buf.WriteByte(b)

		if b == '\n' {
			pf.trailingNewline = true
		}
	}

	if _, err := pf.writer.Write(pf.buf.Bytes()); err != nil {
		return 0, err
	}

	return len(payload), nil
}
