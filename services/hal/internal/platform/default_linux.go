//go:build linux && !tinygo

package platform

// DefaultBackend is used when the configuration names none.
const DefaultBackend = "periph"
