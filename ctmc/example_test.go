package ctmc_test

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ctmcfit/ctmc"
)

// ExampleFit estimates a two-state chain from a single subject.
func ExampleFit() {
	data := ctmc.Dataset{
		{States: []int{0, 1, 0}, Durations: []float64{1, 1, 1}},
	}
	res, err := ctmc.Fit(data, 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("transcount:", res.TransCount)
	fmt.Println("statetime:", res.StateTime)
	fmt.Print("genmat:\n", res.GenMat)
	for i := 0; i < 2; i++ {
		p0, _ := res.TransMat.At(i, 0)
		p1, _ := res.TransMat.At(i, 1)
		fmt.Printf("P[%d] = %.4f %.4f\n", i, p0, p1)
	}
	// Output:
	// transcount: [[0 1] [1 0]]
	// statetime: [2 1]
	// genmat:
	// [-0.5, 0.5]
	// [1, -1]
	// P[0] = 0.7410 0.2590
	// P[1] = 0.5179 0.4821
}

// ExampleFitTolerant shows a state that never occurs: strict fails, tolerant
// leaves an absorbing zero row and reports it.
func ExampleFitTolerant() {
	data := ctmc.Dataset{
		{States: []int{0, 1, 0}, Durations: []float64{1, 1, 1}},
	}

	_, err := ctmc.Fit(data, 3)
	fmt.Println("strict:", errors.Is(err, ctmc.ErrShortStateTime))

	res, err := ctmc.FitTolerant(data, 3, ctmc.WithDiagnostics(ctmc.DiagnosticsCollect), quiet)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, w := range res.Warnings {
		fmt.Println("warning:", w)
	}
	row, _ := res.GenMat.Row(2)
	fmt.Println("genmat[2]:", row)
	// Output:
	// strict: true
	// warning: states i=2: ctmc: cumulated time period smaller than toltime
	// genmat[2]: [0 0 0]
}
