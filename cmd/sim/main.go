package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"options-maker-go/infrastructure/logger"
	"options-maker-go/sim"
)

func main() {
	iterations := flag.Int("iterations", 10, "number of loop iterations to simulate")
	spot := flag.Float64("spot", 60, "initial stock midpoint")
	vol := flag.Float64("vol", 3.0, "volatility assumption")
	step := flag.Float64("step", 1.0, "random walk step sigma")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	zl, err := logger.New(logger.Config{Level: "info", Outputs: []string{"stdout"}, Format: "console"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer zl.Close()

	runner := sim.New(sim.Config{
		Iterations: *iterations,
		Spot:       *spot,
		Volatility: *vol,
		StepSigma:  *step,
		Seed:       *seed,
	}, zl)

	summary, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "sim:", err)
		os.Exit(1)
	}
	fmt.Println(summary)
}
