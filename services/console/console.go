// Package console prints the human-readable progress lines of the show
// (banner, per-LED init status, effect names). Output goes to a primary
// writer and is mirrored, best effort, to any number of extra writers such as
// a UART or a serial port.
package console

import (
	"fmt"
	"io"
	"sync"
)

type Console struct {
	mu      sync.Mutex
	w       io.Writer
	mirrors []io.Writer
}

// New returns a console writing to w (nil discards) and mirroring to mirrors.
func New(w io.Writer, mirrors ...io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	c := &Console{w: w}
	for _, m := range mirrors {
		if m != nil {
			c.mirrors = append(c.mirrors, m)
		}
	}
	return c
}

// Mirror adds a writer that receives a copy of every line.
func (c *Console) Mirror(w io.Writer) {
	if c == nil || w == nil {
		return
	}
	c.mu.Lock()
	c.mirrors = append(c.mirrors, w)
	c.mu.Unlock()
}

func (c *Console) Println(a ...any) { c.write(fmt.Sprintln(a...)) }

func (c *Console) Printf(format string, a ...any) { c.write(fmt.Sprintf(format, a...)) }

// Tagf prints "[tag] message\n".
func (c *Console) Tagf(tag, format string, a ...any) {
	c.write("[" + tag + "] " + fmt.Sprintf(format, a...) + "\n")
}

func (c *Console) write(line string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, line)
	for _, m := range c.mirrors {
		_, _ = io.WriteString(m, line)
	}
}
