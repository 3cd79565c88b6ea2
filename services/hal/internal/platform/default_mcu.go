//go:build baremetal

package platform

// DefaultBackend is used when the configuration names none.
const DefaultBackend = "machine"
