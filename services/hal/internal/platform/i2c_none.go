//go:build !baremetal && !(linux && !tinygo)

package platform

import (
	"ledshow-go/errcode"
	"ledshow-go/services/hal/internal/halcore"
)

func openI2C(id string) (halcore.I2C, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "platform.openI2C", Msg: "no I2C on this host: " + id}
}
