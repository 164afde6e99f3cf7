package nes

import "testing"

func TestControllerShiftsButtons(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)

	// strobe high then low latches the state
	c.Write(1)
	c.Write(0)

	want := [8]byte{1, 0, 0, 1, 0, 0, 0, 0} // A B Select Start Up Down Left Right
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Errorf("read %d = %d, want %d", i, got, w)
		}
	}
}

func TestControllerReadsOneWhenExhausted(t *testing.T) {
	c := NewController()
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 4; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("read past the eighth should return 1, got %d", got)
		}
	}
}

func TestControllerStrobeHighRereadsA(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true)
	c.Write(1)

	// while strobe is high every read reports the A button
	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("read %d = %d, want A state 1", i, got)
		}
	}

	c.SetButton(ButtonA, false)
	if got := c.Read(); got != 0 {
		t.Errorf("read = %d, strobe high must track the live A state", got)
	}
}

func TestControllerSetButtons(t *testing.T) {
	c := NewController()
	c.SetButtons([8]bool{false, true, false, false, true, false, false, false})
	c.Write(1)
	c.Write(0)

	c.Read() // A
	if got := c.Read(); got != 1 {
		t.Error("B should read pressed")
	}
	c.Read() // Select
	c.Read() // Start
	if got := c.Read(); got != 1 {
		t.Error("Up should read pressed")
	}
}
