package mlgw

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/LorenzoPiccari/MLGW/moe"
	"github.com/LorenzoPiccari/MLGW/reconstruct"
)

// Summary writes a human readable description of the model to w.
func (g *Generator) Summary(w io.Writer) error {
	var b strings.Builder
	b.WriteString("###### Summary for MLGW model ######\n")
	fmt.Fprintf(&b, "   Grid size:     %d\n", len(g.times))
	fmt.Fprintf(&b, "   Minimum time:  %g s/M_sun\n", math.Abs(g.times[0]))
	fmt.Fprintf(&b, "   Reference mass: %g M_sun\n", g.opts.ReferenceTotalMass)
	writeQuantity(&b, "Amplitude", g.amp)
	writeQuantity(&b, "Phase", g.ph)
	b.WriteString("####################################\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeQuantity(b *strings.Builder, name string, q Quantity) {
	fmt.Fprintf(b, "   ## Model for %s \n", name)
	fmt.Fprintf(b, "      - #PCs:          %d\n", components(q.PCA))
	fmt.Fprintf(b, "      - #Experts:      %s\n", experts(q.Models))
	fmt.Fprintf(b, "      - #Features:     %d\n", q.Features.Dim())
	fmt.Fprintf(b, "      - Features:      %s\n", strings.Join(q.Features.Lines(), " "))
}

func components(p *reconstruct.PCA) int {
	_, k := p.Dims()
	return k
}

func experts(models []moe.Model) string {
	res := make([]string, len(models))
	for i, m := range models {
		res[i] = strconv.Itoa(m.Experts())
	}
	return strings.Join(res, " ")
}

// WriteSummary appends the summary to the file target, or prints it to the
// standard output when target is empty. If target cannot be opened the
// summary goes to the standard output and a warning is logged.
func (g *Generator) WriteSummary(target string) error {
	if target == "" {
		return g.Summary(os.Stdout)
	}
	f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		g.opts.Logger.WithField("action", "summary").
			WithError(err).
			Warn("cannot open summary target, writing to standard output")
		return g.Summary(os.Stdout)
	}
	if err := g.Summary(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
