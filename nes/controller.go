package nes

// Button indexes into a controller's button state, in the order the
// hardware shifts them out.
const (
	ButtonA = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is a standard joypad. Writing $4016 with bit 0 set latches
// the button state continuously; clearing it freezes the latch so reads
// shift the eight buttons out one at a time. After eight reads a real pad
// returns 1 forever.
type Controller struct {
	buttons [8]bool
	index   byte
	strobe  byte
}

func NewController() *Controller {
	return &Controller{}
}

// SetButtons replaces the full button state.
func (c *Controller) SetButtons(buttons [8]bool) {
	c.buttons = buttons
}

// SetButton sets one button.
func (c *Controller) SetButton(button int, pressed bool) {
	c.buttons[button] = pressed
}

func (c *Controller) Read() byte {
	value := byte(1)
	if c.index < 8 && !c.buttons[c.index] {
		value = 0
	}
	c.index++
	if c.strobe&1 == 1 {
		c.index = 0
	}
	return value
}

func (c *Controller) Write(value byte) {
	c.strobe = value
	if c.strobe&1 == 1 {
		c.index = 0
	}
}
