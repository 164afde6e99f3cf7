// Package debugger is a terminal monitor for a running console: a
// disassembly of the neighborhood of PC, the CPU registers, a memory page
// and the central log, driven by a one-line command prompt.
package debugger

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mizaimao/NESEmulator/logger"
	"github.com/mizaimao/NESEmulator/nes"
)

// Debugger owns the console's execution while attached: the video window
// only presents frames, stepping happens here.
type Debugger struct {
	console *nes.Console
	app     *tview.Application

	disasmView *tview.TextView
	regView    *tview.TextView
	memView    *tview.TextView
	logView    *tview.TextView
	input      *tview.InputField

	mu          sync.Mutex
	running     bool
	stop        chan struct{}
	breakpoints map[uint16]bool
	page        uint16
}

// New attaches a debugger to a console.
func New(console *nes.Console) *Debugger {
	return &Debugger{
		console:     console,
		breakpoints: map[uint16]bool{},
	}
}

// Run builds the terminal interface and blocks until the user quits.
func (dbg *Debugger) Run() error {
	dbg.app = tview.NewApplication()

	dbg.disasmView = tview.NewTextView().SetDynamicColors(true)
	dbg.disasmView.SetBorder(true).SetTitle(" disassembly ")
	dbg.regView = tview.NewTextView()
	dbg.regView.SetBorder(true).SetTitle(" registers ")
	dbg.memView = tview.NewTextView()
	dbg.memView.SetBorder(true).SetTitle(" memory ")
	dbg.logView = tview.NewTextView().SetMaxLines(64)
	dbg.logView.SetBorder(true).SetTitle(" log ")

	// new log entries appear as they happen
	logger.SetEcho(dbg.logView)
	logger.WriteLog(dbg.logView)

	dbg.input = tview.NewInputField().SetLabel("> ")
	dbg.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		dbg.execute(dbg.input.GetText())
		dbg.input.SetText("")
	})

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(dbg.disasmView, 0, 2, false).
		AddItem(dbg.memView, 0, 1, false)
	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(dbg.regView, 12, 0, false).
		AddItem(dbg.logView, 0, 1, false)
	top := tview.NewFlex().
		AddItem(left, 0, 2, false).
		AddItem(right, 0, 1, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, false).
		AddItem(dbg.input, 1, 0, true)

	dbg.refresh()
	logger.Log("debugger", "attached, type help for commands")

	err := dbg.app.SetRoot(root, true).Run()
	logger.SetEcho(nil)
	return err
}

// execute runs one command line.
func (dbg *Debugger) execute(line string) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		// bare enter repeats a single step
		fields = []string{"step"}
	}

	switch fields[0] {
	case "help", "h":
		logger.Log("debugger", "step [n] | frame | go | halt | break <addr> | clear | page <addr> | log [n] | reset | quit")
	case "step", "s":
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil && v > 0 {
				n = v
			}
		}
		dbg.whileHalted(func() {
			for i := 0; i < n; i++ {
				dbg.console.Step()
			}
		})
	case "frame", "f":
		dbg.whileHalted(func() {
			dbg.console.StepFrame()
		})
	case "go", "g", "run":
		dbg.resume()
	case "halt":
		dbg.halt()
	case "break", "b":
		addr, err := parseAddr(fields)
		if err != nil {
			logger.Logf("debugger", "%v", err)
			return
		}
		dbg.mu.Lock()
		dbg.breakpoints[addr] = true
		dbg.mu.Unlock()
		logger.Logf("debugger", "breakpoint at $%04X", addr)
	case "clear":
		dbg.mu.Lock()
		dbg.breakpoints = map[uint16]bool{}
		dbg.mu.Unlock()
		logger.Log("debugger", "breakpoints cleared")
	case "page", "p":
		addr, err := parseAddr(fields)
		if err != nil {
			logger.Logf("debugger", "%v", err)
			return
		}
		dbg.mu.Lock()
		dbg.page = addr
		dbg.mu.Unlock()
	case "log":
		// rewind the log pane to just the most recent entries
		n := 16
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil && v > 0 {
				n = v
			}
		}
		dbg.logView.Clear()
		logger.Tail(dbg.logView, n)
	case "reset":
		dbg.whileHalted(func() {
			dbg.console.Reset()
		})
	case "quit", "q":
		dbg.halt()
		dbg.app.Stop()
		return
	default:
		logger.Logf("debugger", "unknown command %q", fields[0])
	}

	// while free-running the worker owns the machine and queues its own
	// redraws; reading CPU/PPU state here would race with it
	dbg.mu.Lock()
	running := dbg.running
	dbg.mu.Unlock()
	if !running {
		dbg.refresh()
	}
}

func parseAddr(fields []string) (uint16, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%s needs an address", fields[0])
	}
	s := strings.TrimPrefix(strings.TrimPrefix(fields[1], "$"), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", fields[1])
	}
	return uint16(v), nil
}

// whileHalted runs f only when the console is not free-running.
func (dbg *Debugger) whileHalted(f func()) {
	dbg.mu.Lock()
	running := dbg.running
	dbg.mu.Unlock()
	if running {
		logger.Log("debugger", "halt first")
		return
	}
	f()
}

// resume lets the console free-run until a breakpoint or a halt command.
func (dbg *Debugger) resume() {
	dbg.mu.Lock()
	if dbg.running {
		dbg.mu.Unlock()
		return
	}
	dbg.running = true
	dbg.stop = make(chan struct{})
	stop := dbg.stop
	dbg.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hit := dbg.stepFrameWithBreakpoints()
				dbg.app.QueueUpdateDraw(dbg.refresh)
				if hit {
					dbg.halt()
					return
				}
			}
		}
	}()
}

// stepFrameWithBreakpoints runs about one frame of instructions, stopping
// early when PC lands on a breakpoint. The break command can add entries
// while this runs, so it works on a snapshot taken under the lock.
func (dbg *Debugger) stepFrameWithBreakpoints() bool {
	dbg.mu.Lock()
	breakpoints := make(map[uint16]bool, len(dbg.breakpoints))
	for addr := range dbg.breakpoints {
		breakpoints[addr] = true
	}
	dbg.mu.Unlock()

	if len(breakpoints) == 0 {
		dbg.console.StepFrame()
		return false
	}
	cycles := int64(0)
	for cycles < nes.CPUFrequency/60 {
		cycles += dbg.console.Step()
		if breakpoints[dbg.console.CPU.PC] {
			logger.Logf("debugger", "hit breakpoint at $%04X", dbg.console.CPU.PC)
			return true
		}
	}
	return false
}

func (dbg *Debugger) halt() {
	dbg.mu.Lock()
	defer dbg.mu.Unlock()
	if !dbg.running {
		return
	}
	dbg.running = false
	close(dbg.stop)
}

// refresh redraws every pane from the current machine state.
func (dbg *Debugger) refresh() {
	cpu := dbg.console.CPU
	ppu := dbg.console.PPU

	b := strings.Builder{}
	for _, line := range cpu.Disassemble(cpu.PC, cpu.PC+48) {
		if line.Addr == cpu.PC {
			fmt.Fprintf(&b, "[yellow]%s[-]\n", line.Text)
		} else {
			fmt.Fprintf(&b, "%s\n", line.Text)
		}
	}
	dbg.disasmView.SetText(b.String())

	flags := func(name string, set bool) string {
		if set {
			return strings.ToUpper(name)
		}
		return name
	}
	p := cpu.Flags()
	dbg.regView.SetText(fmt.Sprintf(
		" PC  $%04X\n A   $%02X\n X   $%02X\n Y   $%02X\n SP  $%02X\n P   %s%s-%s%s%s%s%s\n\n cycles %d\n line %d dot %d\n frame %d",
		cpu.PC, cpu.A, cpu.X, cpu.Y, cpu.SP,
		flags("n", p&0x80 != 0), flags("v", p&0x40 != 0),
		flags("b", p&0x10 != 0), flags("d", p&0x08 != 0),
		flags("i", p&0x04 != 0), flags("z", p&0x02 != 0),
		flags("c", p&0x01 != 0),
		cpu.Cycles, ppu.ScanLine, ppu.Cycle, ppu.Frame))

	dbg.mu.Lock()
	page := dbg.page
	dbg.mu.Unlock()
	dbg.memView.SetText(Dump(cpu.Read, page, 16))
}
