package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aristath/grouprep/internal/experiment"
	"github.com/aristath/grouprep/internal/group"
)

const separator = "--------------------"

const (
	identityLine = "if it is close to 1 then words are close to identity:"
	faithfulLine = "if it is close to 1 then representation is unfaithful:"
)

func writeText(out io.Writer, res *experiment.Result) error {
	w := bufio.NewWriter(out)

	if res.Training != nil {
		fmt.Fprintln(w, formatFloat(res.Training.Loss))
		if len(res.Sets) == 0 {
			fmt.Fprintln(w, "trained parameters: "+formatSlice(res.Training.X))
		}
	}

	var lastTheta *float64
	for _, set := range res.Sets {
		fmt.Fprintln(w, separator)
		fmt.Fprintln(w, setHeader(set))
		fmt.Fprintln(w, identityLine, formatFloat(set.Identity.Score))
		fmt.Fprintf(w, "%s (%s, %s)\n", faithfulLine, formatFloat(set.Faithful.AB), formatFloat(set.Faithful.C2))
		lastTheta = set.Theta
	}

	if len(res.Matrices) > 0 {
		if lastTheta == nil || *lastTheta != res.MatrixTheta {
			fmt.Fprintln(w, separator)
			fmt.Fprintf(w, "theta=%s\n", formatFloat(res.MatrixTheta))
		}
		for _, block := range res.Matrices {
			fmt.Fprintln(w, block.Label)
			for _, m := range block.Matrices {
				fmt.Fprintln(w, formatMatrix(m.Entries))
			}
			if !block.Holds {
				fmt.Fprintln(w, "(claim does not hold)")
			}
		}
	}

	if res.Elapsed > 0 {
		fmt.Fprintf(w, "--- %s seconds ---\n", formatFloat(res.Elapsed.Seconds()))
	}

	return w.Flush()
}

func setHeader(set experiment.SetResult) string {
	switch set.Kind {
	case experiment.SetTrained:
		return "trained parameters: " + formatParams(set.Params)
	case experiment.SetRecorded:
		return "recorded parameters: " + formatParams(set.Params)
	case experiment.SetAnalytic:
		if set.Theta != nil && *set.Theta == 0 {
			return "theta=0"
		}
		return "analytic parameters: " + formatParams(set.Params)
	default:
		return "parameters: " + formatParams(set.Params)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatParams(p group.Params) string {
	return formatSlice(p[:])
}

func formatSlice(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatMatrix prints an integer matrix with right-aligned columns, one
// bracketed row per line.
func formatMatrix(rows [][]int) string {
	width := 1
	for _, row := range rows {
		for _, v := range row {
			if n := len(strconv.Itoa(v)); n > width {
				width = n
			}
		}
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n ")
		}
		b.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%*d", width, v)
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}
