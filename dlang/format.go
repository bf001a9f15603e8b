package dlang

import "strings"

// formatQueryResult renders one query's TruthList: output
// begins with a newline; each tuple is its own parenthesized, comma-space
// separated line; tuples are column-aligned on the widest value per
// position (except the final column, which is never padded); zero tuples
// prints "Empty Result"; a MissingInfo tag appends a diagnostic marker.
func formatQueryResult(tl TruthList) string {
	if len(tl.Truths) == 0 {
		out := "\nEmpty Result\n"
		if tl.Completeness.MissingInfo {
			out += incompleteMarker
		}
		return out
	}

	arity := len(tl.Truths[0].Args)
	cells := make([][]string, len(tl.Truths))
	widths := make([]int, arity)
	for i, t := range tl.Truths {
		cells[i] = make([]string, arity)
		for j, a := range t.Args {
			d, _ := a.IsSingleton()
			s := d.String()
			cells[i][j] = s
			if len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, row := range cells {
		b.WriteString("(")
		for j, s := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			if j < arity-1 {
				b.WriteString(s)
				b.WriteString(strings.Repeat(" ", widths[j]-len(s)))
			} else {
				b.WriteString(s)
			}
		}
		b.WriteString(")\n")
	}
	if tl.Completeness.MissingInfo {
		b.WriteString(incompleteMarker)
	}
	return b.String()
}

// incompleteMarker is the diagnostic appended when the recursion limit
// changed a query's result (one level shallower gave different tuples):
// results may be missing tuples that a deeper unfolding would have found.
const incompleteMarker = "; possibly incomplete (recursion limit reached)\n"
