package services

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MatchMaxScore returns an optimal one-to-one matching of rows to columns that
// maximizes the summed score. The result maps each row to its column, or -1
// when the row is left unmatched because there are fewer columns than rows.
//
// The matrix may be rectangular; it is padded to a square internally. Scores
// must be finite: anything else is a caller bug and panics.
func MatchMaxScore(scores mat.Matrix) []int {
	rows, cols := scores.Dims()
	if rows == 0 || cols == 0 {
		out := make([]int, rows)
		for i := range out {
			out[i] = -1
		}
		return out
	}

	n := max(rows, cols)
	maxScore := math.Inf(-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s := scores.At(i, j)
			if math.IsNaN(s) || math.IsInf(s, 0) {
				panic(fmt.Sprintf("match: non-finite score %v at (%d,%d)", s, i, j))
			}
			maxScore = math.Max(maxScore, s)
		}
	}

	// Convert to a non-negative minimisation problem; padding cells cost 0
	// and only ever absorb the surplus side.
	cost := mat.NewDense(n, n, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			cost.Set(i, j, maxScore-scores.At(i, j))
		}
	}

	colOf := hungarian(cost)

	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		if colOf[i] < cols {
			out[i] = colOf[i]
		} else {
			out[i] = -1
		}
	}
	return out
}

// hungarian solves the square assignment problem in O(n^3) using the
// Kuhn-Munkres algorithm with row/column potentials. It returns the column
// assigned to each row in a minimum-cost perfect matching.
func hungarian(cost *mat.Dense) []int {
	n, m := cost.Dims()
	if n != m {
		panic(fmt.Sprintf("hungarian: cost matrix must be square, got %dx%d", n, m))
	}

	// 1-based; index 0 is a sentinel column.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[j] = row assigned to column j
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Flip the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	colOf := make([]int, n)
	for j := 1; j <= n; j++ {
		if match[j] != 0 {
			colOf[match[j]-1] = j - 1
		}
	}
	return colOf
}
