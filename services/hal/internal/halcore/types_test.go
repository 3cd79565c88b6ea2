// services/hal/internal/halcore/types_test.go

package halcore

import "testing"

type plainPin struct{}

func (plainPin) ConfigureOutput(bool) error { return nil }
func (plainPin) Set(bool)                   {}
func (plainPin) Get() bool                  { return false }
func (plainPin) Number() int                { return 0 }

type probedPin struct {
	plainPin
	ready bool
}

func (p probedPin) Ready() bool { return p.ready }

func TestIsReady(t *testing.T) {
	if !IsReady(plainPin{}) {
		t.Fatal("pin without Ready() must count as ready")
	}
	if IsReady(probedPin{ready: false}) {
		t.Fatal("probed pin reporting not ready counted as ready")
	}
	if !IsReady(probedPin{ready: true}) {
		t.Fatal("probed pin reporting ready counted as not ready")
	}
}
