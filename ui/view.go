package ui

import (
	"image"
	"time"

	"fyne.io/fyne"

	"github.com/mizaimao/NESEmulator/nes"
)

// View runs the console at the display rate and scales its frames for the
// window.
type View struct {
	console *nes.Console
	scale   int
	scaled  *image.RGBA
}

func NewView(console *nes.Console, scale int) *View {
	return &View{
		console: console,
		scale:   scale,
		scaled:  image.NewRGBA(image.Rect(0, 0, screenWidth*scale, screenHeight*scale)),
	}
}

// Frame scales the most recent completed frame for display.
func (v *View) Frame() image.Image {
	Resize(v.scaled, v.console.Buffer(), v.scale)
	return v.scaled
}

// RunLoop starts the 60Hz tick that steps the console (when paced) and
// repaints the window. The returned function stops the loop.
func (v *View) RunLoop(paced bool, repaint func()) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				if paced {
					dt := now.Sub(last).Seconds()
					last = now
					// cap catch-up after a stall so we never spiral
					if dt > 1.0/30 {
						dt = 1.0 / 30
					}
					v.console.StepSeconds(dt)
				}
				repaint()
			}
		}
	}()
	return func() { close(done) }
}

// SetKey routes a key event to joypad 1.
//
//	W A S D  d-pad
//	J K      A B
//	U I      select start
func (v *View) SetKey(name fyne.KeyName, down bool) {
	pad := v.console.Controller1
	switch name {
	case fyne.KeyJ:
		pad.SetButton(nes.ButtonA, down)
	case fyne.KeyK:
		pad.SetButton(nes.ButtonB, down)
	case fyne.KeyU:
		pad.SetButton(nes.ButtonSelect, down)
	case fyne.KeyI:
		pad.SetButton(nes.ButtonStart, down)
	case fyne.KeyW:
		pad.SetButton(nes.ButtonUp, down)
	case fyne.KeyS:
		pad.SetButton(nes.ButtonDown, down)
	case fyne.KeyA:
		pad.SetButton(nes.ButtonLeft, down)
	case fyne.KeyD:
		pad.SetButton(nes.ButtonRight, down)
	}
}
