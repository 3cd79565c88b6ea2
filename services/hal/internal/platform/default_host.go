//go:build !baremetal && !(linux && !tinygo)

package platform

// DefaultBackend is used when the configuration names none.
const DefaultBackend = "memory"
