package oracle

import "strings"

// decodeBIO turns per-token BIO tags into entity substrings of text.
// offsets holds the [start, end) rune range of each token in text; special
// tokens carry an empty range and never start an entity. Only entities whose
// type equals label are returned.
func decodeBIO(text string, offsets [][]int, tags []string, label string) []string {
	runes := []rune(text)
	var (
		out        []string
		start, end = -1, -1
	)
	flush := func() {
		if start >= 0 && end > start {
			out = append(out, strings.TrimSpace(string(runes[start:end])))
		}
		start, end = -1, -1
	}

	for i, tag := range tags {
		if i >= len(offsets) || len(offsets[i]) < 2 {
			flush()
			continue
		}
		s, e := clamp(offsets[i][0], len(runes)), clamp(offsets[i][1], len(runes))
		if e <= s {
			continue
		}

		prefix, typ, _ := strings.Cut(tag, "-")
		switch {
		case typ != label:
			flush()
		case prefix == "B" || start < 0:
			flush()
			start, end = s, e
		case prefix == "I":
			end = e
		default:
			flush()
		}
	}
	flush()
	return out
}

// argmax returns the index of the largest value in row.
func argmax(row []float32) int {
	best := 0
	for i, v := range row {
		if v > row[best] {
			best = i
		}
	}
	return best
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
