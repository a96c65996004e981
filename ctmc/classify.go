// SPDX-License-Identifier: MIT
// Package ctmc: structural classification of a fitted chain.
//
// The jump graph has an edge i→j (i ≠ j) whenever genmat[i][j] > 0. From it:
//   - Absorbing: states with no outgoing rate (the zero rows the tolerant
//     builder leaves for unobserved states are absorbing).
//   - Reachable[i]: states reachable from i, i included, in ascending order.
//   - Transient: states i from which some reachable j cannot return to i.
//
// Complexity: O(N·(N + E)) for N states and E positive rates.

package ctmc

import (
	"sort"

	"github.com/katalvlaran/ctmcfit/matrix"
)

const opClassify = "Classify"

// Classification summarizes the reachability structure of a generator matrix.
type Classification struct {
	Absorbing []int   `json:"absorbing"`
	Transient []int   `json:"transient"`
	Reachable [][]int `json:"reachable"`
}

// IsAbsorbing reports whether state i is absorbing.
func (c *Classification) IsAbsorbing(i int) bool {
	k := sort.SearchInts(c.Absorbing, i)

	return k < len(c.Absorbing) && c.Absorbing[k] == i
}

// Classify walks the jump graph of genmat from every state.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare, matrix.ErrNaNInf.
func Classify(genmat matrix.Matrix) (*Classification, error) {
	if err := matrix.ValidateSquareNonNil(genmat); err != nil {
		return nil, ctmcErrorf(opClassify, err)
	}
	if err := matrix.ValidateFinite(genmat); err != nil {
		return nil, ctmcErrorf(opClassify, err)
	}

	n := genmat.Rows()
	adj := make([][]int, n)
	edge := func(i, j int, v float64) bool {
		if i != j && v > 0 {
			adj[i] = append(adj[i], j)
		}

		return true
	}
	var i, j int
	if d, ok := genmat.(*matrix.Dense); ok {
		d.Do(edge)
	} else {
		var v float64
		var err error
		for i = 0; i < n; i++ {
			for j = 0; j < n; j++ {
				if v, err = genmat.At(i, j); err != nil {
					return nil, ctmcErrorf(opClassify, err)
				}
				edge(i, j, v)
			}
		}
	}

	c := &Classification{Reachable: make([][]int, n)}
	reach := make([][]bool, n)
	for i = 0; i < n; i++ {
		if len(adj[i]) == 0 {
			c.Absorbing = append(c.Absorbing, i)
		}
		reach[i] = walk(adj, i)
		for j = 0; j < n; j++ {
			if reach[i][j] {
				c.Reachable[i] = append(c.Reachable[i], j)
			}
		}
	}

	for i = 0; i < n; i++ {
		for _, j = range c.Reachable[i] {
			if !reach[j][i] {
				c.Transient = append(c.Transient, i)
				break
			}
		}
	}

	return c, nil
}

// walk runs breadth-first search from start and returns the visited set.
func walk(adj [][]int, start int) []bool {
	visited := make([]bool, len(adj))
	queue := make([]int, 0, len(adj))
	visited[start] = true
	queue = append(queue, start)

	var cur int
	for len(queue) > 0 {
		cur = queue[0]
		queue = queue[1:]
		for _, nbr := range adj[cur] {
			if !visited[nbr] {
				visited[nbr] = true
				queue = append(queue, nbr)
			}
		}
	}

	return visited
}
