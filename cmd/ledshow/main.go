// Command ledshow runs the LED light show on a host: a Linux board through
// periph.io, a PCA9536 expander on I²C, or in-memory pins for a dry run.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
