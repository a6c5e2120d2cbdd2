package logo

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable summary of the choices a description offers.
func Describe(l *Logo) string {
	var b strings.Builder

	b.WriteString("Canvas:\n")
	if len(l.Canvas.Colors) == 0 {
		b.WriteString("  colors: (none, transparent background)\n")
	}
	for i, c := range l.Canvas.Colors {
		fmt.Fprintf(&b, "  color[%d]   %-22s %s\n", i, c, normalized(c))
	}
	for i, r := range l.Ratios() {
		dirs := "l,p"
		if r.Dir != nil {
			var d []string
			if r.Dir.L {
				d = append(d, "l")
			}
			if r.Dir.P {
				d = append(d, "p")
			}
			dirs = strings.Join(d, ",")
		}
		fmt.Fprintf(&b, "  ratio[%d]   %-22s %s\n", i, r, dirs)
	}

	fmt.Fprintf(&b, "\nIcon: padding %.2f, %d layer(s)\n", l.Icon.Padding, len(l.Icon.Layers))
	for i, layer := range l.Icon.Layers {
		fmt.Fprintf(&b, "\n  [%d] %s\n", i, layer.File())
		for j, c := range layer.Colors {
			fmt.Fprintf(&b, "      color[%d] %-22s %s\n", j, c, normalized(c))
		}
	}
	return b.String()
}

func normalized(s string) string {
	n, err := Normalize(s)
	if err != nil {
		return "(invalid)"
	}
	return n
}
