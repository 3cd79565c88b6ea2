//go:build !tinygo

package console

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// OpenSerial opens a host serial port (e.g. /dev/ttyUSB0) for mirroring.
func OpenSerial(port string, baud int) (io.WriteCloser, error) {
	if baud <= 0 {
		baud = 115200
	}
	p, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial %s", port)
	}
	return p, nil
}
