// Package ctmc_test provides benchmarks for the estimation pipeline.
package ctmc_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/ctmcfit/ctmc"
)

// sink to defeat dead-code elimination
var sinkR *ctmc.Result

func BenchmarkFit(b *testing.B) {
	for _, n := range []int{4, 8, 16} {
		data := cleanDataset(1337, 5000, n)
		for _, w := range []int{1, 4} {
			b.Run(fmt.Sprintf("n=%d/workers=%d", n, w), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					res, err := ctmc.Fit(data, n, ctmc.WithWorkers(w))
					if err != nil {
						b.Fatal(err)
					}
					sinkR = res
				}
			})
		}
	}
}

func BenchmarkFitTolerant(b *testing.B) {
	data := dirtyDataset(42, 5000, 8)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		res, err := ctmc.FitTolerant(data, 8, ctmc.WithDiagnostics(ctmc.DiagnosticsSilent))
		if err != nil {
			b.Fatal(err)
		}
		sinkR = res
	}
}
