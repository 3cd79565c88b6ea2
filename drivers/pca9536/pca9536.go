// Package pca9536 provides a driver for the PCA9536 4-bit I²C I/O expander.
//
// The device has four push-pull ports P0..P3. Every port powers up as an
// input; the driver keeps a shadow copy of the output and configuration
// registers so single-pin updates are one register write:
//
//	d := pca9536.New(bus)
//	err := d.Configure()          // probe + all outputs low, all ports input
//	err = d.ConfigureOutput(2)    // P2 becomes an output
//	err = d.Set(2, true)          // drive P2 high
package pca9536

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address (fixed for the PCA9536).
const Address = 0x41

// NumPorts is the number of I/O ports on the device.
const NumPorts = 4

// Registers.
const (
	regInput    = 0x00
	regOutput   = 0x01
	regPolarity = 0x02
	regConfig   = 0x03
)

// Errors returned by the driver.
var (
	ErrInvalidPort = errors.New("pca9536: invalid port")
	ErrProtocol    = errors.New("pca9536: unexpected register value")
)

// Device wraps an I2C connection to a PCA9536 device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	out uint8 // shadow of regOutput
	cfg uint8 // shadow of regConfig (1 = input)
	buf [2]byte
}

// New creates a new PCA9536 connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the device.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		Address: Address,
		cfg:     0xFF,
	}
}

// Configure probes the device and resets it to the power-on state with all
// output latches low and no polarity inversion.
func (d *Device) Configure() error {
	if err := d.Connected(); err != nil {
		return err
	}
	if err := d.writeReg(regPolarity, 0x00); err != nil {
		return err
	}
	d.out = 0x00
	if err := d.writeReg(regOutput, d.out); err != nil {
		return err
	}
	d.cfg = 0xFF
	return d.writeReg(regConfig, d.cfg)
}

// Connected reads the configuration register; the upper nibble is unused and
// always reads back as ones.
func (d *Device) Connected() error {
	v, err := d.readReg(regConfig)
	if err != nil {
		return err
	}
	if v&0xF0 != 0xF0 {
		return ErrProtocol
	}
	return nil
}

// ConfigureOutput switches port p to output, driving the current latch value.
func (d *Device) ConfigureOutput(p int) error {
	if p < 0 || p >= NumPorts {
		return ErrInvalidPort
	}
	d.cfg &^= 1 << p
	return d.writeReg(regConfig, d.cfg)
}

// Set drives port p high or low. The latch is written even for input ports so
// a later ConfigureOutput starts at the requested level.
func (d *Device) Set(p int, high bool) error {
	if p < 0 || p >= NumPorts {
		return ErrInvalidPort
	}
	if high {
		d.out |= 1 << p
	} else {
		d.out &^= 1 << p
	}
	return d.writeReg(regOutput, d.out)
}

// Get returns the last level written to port p.
func (d *Device) Get(p int) bool {
	if p < 0 || p >= NumPorts {
		return false
	}
	return d.out&(1<<p) != 0
}

// Read returns the input register (pin levels as seen by the device).
func (d *Device) Read() (uint8, error) {
	v, err := d.readReg(regInput)
	return v & 0x0F, err
}

func (d *Device) writeReg(reg, v uint8) error {
	d.buf[0] = reg
	d.buf[1] = v
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}
