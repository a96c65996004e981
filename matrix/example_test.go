package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/ctmcfit/matrix"
)

// ExampleExpm turns a two-state rate matrix into one-period transition
// probabilities.
func ExampleExpm() {
	q, _ := matrix.NewDenseFromRows([][]float64{
		{-0.5, 0.5},
		{0.0, 0.0}, // absorbing
	})
	if err := matrix.ValidateGenerator(q, 1e-12); err != nil {
		fmt.Println("not a generator:", err)
		return
	}

	p, err := matrix.Expm(q, 1.0)
	if err != nil {
		fmt.Println("expm:", err)
		return
	}
	stay, _ := p.At(0, 0)
	leave, _ := p.At(0, 1)
	fmt.Printf("stay=%.4f leave=%.4f\n", stay, leave)

	sums, _ := matrix.RowSums(p)
	fmt.Printf("row sums: %.4f %.4f\n", sums[0], sums[1])

	// Output:
	// stay=0.6065 leave=0.3935
	// row sums: 1.0000 1.0000
}

// ExampleDense_MarshalJSON shows the row-of-rows wire form.
func ExampleDense_MarshalJSON() {
	m, _ := matrix.NewDenseFromRows([][]float64{{-1, 1}, {0, 0}})
	b, _ := m.MarshalJSON()
	fmt.Println(string(b))

	// Output:
	// [[-1,1],[0,0]]
}
