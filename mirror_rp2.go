//go:build rp2040 || rp2350

package main

import (
	"io"
	"time"

	"ledshow-go/services/console"
)

const bootDelay = 2 * time.Second

// consoleMirror copies console output to UART0 on GP0/GP1.
func consoleMirror() []io.Writer {
	w, err := console.UART("uart0", 115200, 0, 1)
	if err != nil {
		println("[WARN] UART mirror unavailable:", err.Error())
		return nil
	}
	return []io.Writer{w}
}
