package main

import (
	"fmt"
	"os"

	"github.com/meenmo/hjblib/gmwb"
)

func main() {
	// Quick demonstration run: reference scenario, single pass, no
	// refinement. Use cmd/gmwbprice for the full driver.
	pricer, err := gmwb.NewPricer(gmwb.Params{
		Expiry:           10,
		Rate:             0.05,
		Vol:              0.20,
		ContractRate:     10,
		Penalty:          0.1,
		ControlPartition: 10,
		TimeSteps:        100,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	results, err := pricer.Price()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	res := results[0]
	for _, p := range [][2]float64{{50, 100}, {100, 100}, {150, 100}, {100, 50}, {100, 150}} {
		fmt.Printf("V(S=%g, W=%g) = %.4f\n", p[0], p[1], res.Surface.At(p[0], p[1]))
	}
	fmt.Printf("average number of inner iterations: %g\n", res.AvgInnerIterations)
}
