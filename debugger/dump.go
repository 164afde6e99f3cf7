package debugger

import (
	"fmt"
	"strings"
)

// Dump formats rows of 16 bytes starting at start, read through the
// supplied function. The format is the usual monitor one:
//
//	$0000:  A9 00 8D 06 20 ...
func Dump(read func(uint16) byte, start uint16, rows int) string {
	b := strings.Builder{}
	addr := start &^ 0x000f
	for r := 0; r < rows; r++ {
		fmt.Fprintf(&b, "$%04X: ", addr)
		for i := 0; i < 16; i++ {
			fmt.Fprintf(&b, " %02X", read(addr))
			addr++
		}
		b.WriteString("\n")
		if addr == 0 {
			break
		}
	}
	return b.String()
}
