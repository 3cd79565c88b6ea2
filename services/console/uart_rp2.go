//go:build rp2040 || rp2350

package console

import (
	"io"
	"machine"

	"ledshow-go/errcode"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// UART configures uart0 or uart1 on the given pins for mirroring.
func UART(id string, baud uint32, tx, rx int) (io.Writer, error) {
	var hw *uartx.UART
	switch id {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "console.UART", Msg: id}
	}
	// Defaults inside uartx apply if zero.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(tx),
		RX:       machine.Pin(rx),
	}); err != nil {
		return nil, err
	}
	return hw, nil
}
