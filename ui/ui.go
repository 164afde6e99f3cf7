// Package ui presents a console in a desktop window: video through a fyne
// canvas, sound through portaudio, keyboard mapped to the first joypad.
package ui

import (
	"fyne.io/fyne"
	"fyne.io/fyne/app"
	"fyne.io/fyne/canvas"
	"fyne.io/fyne/driver/desktop"

	"github.com/mizaimao/NESEmulator/logger"
	"github.com/mizaimao/NESEmulator/nes"
)

const (
	screenWidth  = 256
	screenHeight = 240
)

// Options configures the window.
type Options struct {
	Scale  int    // integer video scale, 1 or more
	Record string // write the session's audio to this WAV file when set
	Paced  bool   // false leaves stepping to an attached debugger
}

func (opts Options) validate() Options {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	return opts
}

// OpenWindow opens the video window and blocks until it is closed.
func OpenWindow(console *nes.Console, opts Options) error {
	opts = opts.validate()

	audio := NewAudio()
	if err := audio.Start(); err != nil {
		// keep running silent rather than dying without a sound device
		logger.Logf("audio", "disabled: %v", err)
		audio = nil
	} else {
		defer audio.Stop()
		console.SetAudioSampleRate(audio.SampleRate())
	}

	var recorder *Recorder
	if opts.Record != "" {
		recorder = NewRecorder(sampleRate)
	}
	switch {
	case audio != nil && recorder != nil:
		console.SetAudioOutputWork(func(s float32) {
			audio.Push(s)
			recorder.Push(s)
		})
	case audio != nil:
		console.SetAudioOutputWork(audio.Push)
	case recorder != nil:
		console.SetAudioSampleRate(sampleRate)
		console.SetAudioOutputWork(recorder.Push)
	}

	fyneApp := app.New()
	window := fyneApp.NewWindow("NESEmulator")
	window.SetFixedSize(true)
	window.SetPadded(false)

	view := NewView(console, opts.Scale)
	img := canvas.NewImageFromImage(view.Frame())
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels
	window.SetContent(img)
	window.Resize(fyne.NewSize(screenWidth*opts.Scale, screenHeight*opts.Scale))

	if deskCanvas, ok := window.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(key *fyne.KeyEvent) {
			view.SetKey(key.Name, true)
		})
		deskCanvas.SetOnKeyUp(func(key *fyne.KeyEvent) {
			view.SetKey(key.Name, false)
		})
	}

	stop := view.RunLoop(opts.Paced, func() {
		img.Image = view.Frame()
		canvas.Refresh(img)
	})
	defer stop()

	window.ShowAndRun()

	if recorder != nil {
		if err := recorder.Save(opts.Record); err != nil {
			return err
		}
		logger.Logf("audio", "recording written to %s", opts.Record)
	}
	return nil
}
