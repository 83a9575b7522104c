package diag

// Suggest returns the closest candidate to target by Levenshtein distance,
// or "" if none is close enough to be worth suggesting. Ported from the
// thresholds in the original mccomp.cpp: only ever suggest a candidate
// whose edit distance is at most 2 and strictly less than len(target) —
// a short identifier like "x" never triggers a guess.
func Suggest(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}

	best := ""
	bestDist := -1
	for _, c := range candidates {
		if c == target {
			continue
		}
		d := levenshtein(target, c)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}

	if bestDist >= 0 && bestDist <= 2 && bestDist < len(target) {
		return best
	}
	return ""
}

// levenshtein computes the classic edit distance between a and b using a
// full dynamic-programming table.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			d[i][j] = min3(del, ins, sub)
		}
	}
	return d[la][lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
