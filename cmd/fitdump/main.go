package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/adrian9211/private-coach/analysis"
	"github.com/adrian9211/private-coach/fit"
)

func main() {
	var (
		jsonOut    = flag.Bool("json", false, "Emit the decoded activity as JSON")
		showSplits = flag.Bool("splits", false, "Include a per-lap split table in text output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-fit-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
		os.Exit(1)
	}

	act, err := fit.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode failed: %v\n", err)
		os.Exit(1)
	}
	analysis.Enrich(act)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(act); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(analysis.Describe(act))
	if *showSplits {
		splits := analysis.Splits(act)
		if len(splits) > 0 {
			fmt.Println()
			fmt.Println("Splits")
			for _, sp := range splits {
				fmt.Printf(
					"- Split %02d | %7.1fs | %8.0f m | %5.1f m/s | %5.0f bpm | %5.0f W\n",
					sp.Index,
					sp.DurationSeconds,
					sp.DistanceMeters,
					sp.AvgSpeed,
					sp.AvgHeartRate,
					sp.AvgPower,
				)
			}
		}
	}
}
