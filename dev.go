package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/mizaimao/NESEmulator/logger"
	"github.com/mizaimao/NESEmulator/nes"
)

// watchROM watches the directory containing romFile and swaps the running
// cartridge whenever the ROM is rewritten. Meant for homebrew development:
// assemble, and the running console resets into the new build.
func watchROM(console *nes.Console, romFile string) {
	romFile = filepath.Clean(romFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Logf("watch", "%v", err)
		return
	}
	defer watcher.Close()

	// watch the directory, not the file: most assemblers replace the
	// output file, which would invalidate a file-level watch
	if err := watcher.Watch(filepath.Dir(romFile)); err != nil {
		logger.Logf("watch", "%v", err)
		return
	}
	logger.Logf("watch", "watching %s", romFile)

	var reload <-chan time.Time
	for {
		select {
		case <-reload:
			rom, err := os.ReadFile(romFile)
			if err != nil {
				logger.Logf("watch", "reload: %v", err)
				break
			}
			if err := console.Swap(rom); err != nil {
				logger.Logf("watch", "reload: %v", err)
				break
			}
			logger.Logf("watch", "reloaded %s", romFile)
		case ev := <-watcher.Event:
			if ev.Name == romFile && !ev.IsAttrib() {
				// writes arrive in bursts; settle before reloading
				reload = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			logger.Logf("watch", "%v", err)
		}
	}
}
