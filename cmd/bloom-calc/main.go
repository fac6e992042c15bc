// bloom-calc is a sizing and accuracy diagnostic for Bloom filters.
//
// Given a capacity and a target false-positive rate, it prints the
// derived parameters (bit-array size, memory footprint, hash rounds)
// so operators can see what a BF.RESERVE with those arguments will
// allocate before issuing it.
//
// With -simulate, it also builds the filter, loads it to capacity with
// generated keys, probes it with an equal number of disjoint keys, and
// reports the observed false-positive rate against the target. This is
// the quickest way to sanity-check a sizing decision empirically.
//
// Usage Examples
// ==============
//
// Print sizing for one million elements at 1%:
//
//	bloom-calc -capacity 1000000 -rate 0.01
//
// Same, plus an empirical accuracy run:
//
//	bloom-calc -capacity 1000000 -rate 0.01 -simulate
//
// Exit Codes
// ==========
//
// 0: Parameters valid (and, with -simulate, observed rate within twice
//    the target).
// 1: Invalid parameters, or the simulation exceeded twice the target
//    rate (which indicates a broken hash or sizing regression).

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"bloomd.lopezb.com/internal/bloom"
)

func main() {
	capacity := flag.Uint64("capacity", 1000, "Expected number of distinct elements")
	rate := flag.Float64("rate", 0.01, "Target false positive rate, exclusive (0, 1)")
	simulate := flag.Bool("simulate", false, "Fill the filter and measure the observed false positive rate")
	flag.Parse()

	f, err := bloom.New(*capacity, *rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[err] %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("capacity:            %d\n", f.Capacity())
	fmt.Printf("target rate:         %g\n", f.FalsePositiveRate())
	fmt.Printf("raw bits:            %d\n", bloom.OptimalBitCount(*capacity, *rate))
	fmt.Printf("aligned bits:        %d\n", f.BitCount())
	fmt.Printf("memory:              %d bytes\n", f.BitCount()/8)
	fmt.Printf("hash rounds:         %d\n", f.HashRounds())
	fmt.Printf("bits per element:    %.2f\n", float64(f.BitCount())/float64(f.Capacity()))

	if !*simulate {
		return
	}

	start := time.Now()

	n := int(*capacity)
	falsePositives := measureFalsePositives(f, n)
	observed := float64(falsePositives) / float64(n)
	saturation := float64(f.SetBits()) / float64(f.BitCount())

	fmt.Printf("\nsimulated inserts:   %d\n", n)
	fmt.Printf("probes:              %d\n", n)
	fmt.Printf("false positives:     %d\n", falsePositives)
	fmt.Printf("observed rate:       %.6f\n", observed)
	fmt.Printf("saturation:          %.2f%%\n", saturation*100)
	fmt.Printf("elapsed:             %s\n", time.Since(start).Round(time.Millisecond))

	if observed > 2*(*rate) {
		fmt.Fprintf(os.Stderr, "[err] observed rate %.6f exceeds twice the %.4f target\n", observed, *rate)
		os.Exit(1)
	}
}

// measureFalsePositives loads the filter to exactly n elements, then
// probes it with n keys from a disjoint key space. The distinct
// prefixes guarantee no probe key was ever inserted, so every positive
// answer it counts is a false positive.
func measureFalsePositives(f *bloom.Filter, n int) int {
	for i := 0; i < n; i++ {
		f.Add(fmt.Appendf(nil, "member-%d", i))
	}

	falsePositives := 0
	for i := 0; i < n; i++ {
		if f.Contains(fmt.Appendf(nil, "stranger-%d", i)) {
			falsePositives++
		}
	}
	return falsePositives
}
