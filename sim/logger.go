package sim

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger writes rows of floats as CSV under a header line.
type Logger struct {
	w   io.Writer
	c   io.Closer
	h   []string
	fmt string
}

func NewLogger(w io.Writer, h ...string) (l *Logger) {
	l = &Logger{w: w, h: h}
	fmt.Fprint(l.w, strings.Join(l.h, ","), "\n")
	s := strings.Repeat("%f,", len(l.h))
	l.fmt = s[:len(s)-1] + "\n"
	return
}

func NewFileLogger(fn string, h ...string) (*Logger, error) {
	f, err := os.Create(fn)
	if err != nil {
		return nil, err
	}
	l := NewLogger(f, h...)
	l.c = f
	return l, nil
}

func (l *Logger) Log(v ...float64) {
	args := make([]interface{}, len(v))
	for i, x := range v {
		args[i] = x
	}
	fmt.Fprintf(l.w, l.fmt, args...)
}

func (l *Logger) Close() error {
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}
