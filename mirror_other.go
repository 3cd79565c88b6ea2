//go:build !(rp2040 || rp2350)

package main

import (
	"io"
	"time"
)

const bootDelay = 0 * time.Second

func consoleMirror() []io.Writer { return nil }
