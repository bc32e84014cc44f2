package layout

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("burst of 10 triggers fired %d times, want 1", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20 * time.Millisecond)
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("stopped debouncer fired %d times, want 0", got)
	}
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0)
	if d.delay != DefaultResizeDelay {
		t.Errorf("delay = %v, want %v", d.delay, DefaultResizeDelay)
	}
}

func TestResizerDeliversLatest(t *testing.T) {
	got := make(chan Container, 1)
	r := NewResizer(20*time.Millisecond, func(c Container) { got <- c })
	defer r.Stop()

	r.Resize(Container{Width: 100, Height: 100})
	r.Resize(Container{Width: 200, Height: 150})
	r.Resize(Container{Width: 640, Height: 480})

	select {
	case c := <-got:
		if c.Width != 640 || c.Height != 480 {
			t.Errorf("callback saw %+v, want the final dimensions", c)
		}
	case <-time.After(time.Second):
		t.Fatal("resize callback never fired")
	}
}
