package memory

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// scale converts a byte count into the largest binary unit it reaches.
func scale(n uint64) (float64, string) {
	switch {
	case n >= GiB:
		return float64(n) / float64(GiB), "GiB"
	case n >= MiB:
		return float64(n) / float64(MiB), "MiB"
	case n >= KiB:
		return float64(n) / float64(KiB), "KiB"
	default:
		return float64(n), "B"
	}
}

// Report returns a human-readable usage summary: the total used against the
// advisory budget, followed by one line per tag with live allocations.
func (a *Allocator) Report() string {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	fmt.Fprintf(&b, "Engine memory used: %.6f MiB / %.2f MiB\n",
		float64(a.stats.Total)/float64(MiB), float64(a.budget)/float64(MiB))

	for tag := Tag(0); tag < TagMax; tag++ {
		count := a.stats.CountByTag[tag]
		if count == 0 {
			continue
		}
		bytes := a.stats.ByTag[tag]
		amount, unit := scale(bytes)
		fmt.Fprintf(&b, "--> %s: [%d] %.2f%s (%s bytes)\n", tag, count, amount, unit, p.Sprintf("%d", bytes))
	}
	return b.String()
}
