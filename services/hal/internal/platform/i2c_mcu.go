//go:build baremetal

package platform

import (
	"machine"

	"ledshow-go/errcode"
	"ledshow-go/services/hal/internal/halcore"
)

// openI2C configures i2c0 or i2c1 on board-default pins at 400 kHz.
func openI2C(id string) (halcore.I2C, error) {
	var b *machine.I2C
	switch id {
	case "", "i2c0":
		b = machine.I2C0
	case "i2c1":
		b = machine.I2C1
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "platform.openI2C", Msg: id}
	}
	if err := b.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		return nil, err
	}
	return b, nil
}
