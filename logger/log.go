// Package logger keeps a central in-memory log for the emulator. Entries
// are tagged with the subsystem that produced them and consecutive
// duplicates are folded into a repeat count. By default nothing is printed;
// an echo writer can be attached so entries also appear as they happen.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// maxEntries is the number of entries kept before the oldest are dropped.
const maxEntries = 256

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

type central struct {
	mu      sync.Mutex
	entries []Entry
	echo    io.Writer
}

var log central

// Log adds an entry to the central logger.
func Log(tag, detail string) {
	log.mu.Lock()
	defer log.mu.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	if n := len(log.entries); n > 0 {
		last := &log.entries[n-1]
		if last.Tag == tag && last.Detail == detail {
			last.Repeated++
			last.Timestamp = time.Now()
			return
		}
	}

	e := Entry{Timestamp: time.Now(), Tag: tag, Detail: detail}
	log.entries = append(log.entries, e)
	if len(log.entries) > maxEntries {
		log.entries = log.entries[len(log.entries)-maxEntries:]
	}

	if log.echo != nil {
		io.WriteString(log.echo, e.String())
	}
}

// Logf adds a formatted entry to the central logger.
func Logf(tag, format string, args ...interface{}) {
	Log(tag, fmt.Sprintf(format, args...))
}

// SetEcho attaches a writer that receives every new entry. A nil writer
// turns echoing off.
func SetEcho(w io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.echo = w
}

// WriteLog writes every held entry to w. Returns false if the log is empty.
func WriteLog(w io.Writer) bool {
	log.mu.Lock()
	defer log.mu.Unlock()

	if len(log.entries) == 0 {
		return false
	}
	for _, e := range log.entries {
		io.WriteString(w, e.String())
	}
	return true
}

// Tail writes the most recent number entries to w.
func Tail(w io.Writer, number int) {
	log.mu.Lock()
	defer log.mu.Unlock()

	if number > len(log.entries) {
		number = len(log.entries)
	}
	for _, e := range log.entries[len(log.entries)-number:] {
		io.WriteString(w, e.String())
	}
}

// Clear empties the log.
func Clear() {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.entries = log.entries[:0]
}
