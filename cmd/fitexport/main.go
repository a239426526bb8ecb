package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrian9211/private-coach/analysis"
	"github.com/adrian9211/private-coach/export"
	"github.com/adrian9211/private-coach/fit"
)

func main() {
	var (
		inPath    = flag.String("in", "", "Path to input .fit file")
		outDir    = flag.String("out", "", "Output directory")
		overwrite = flag.Bool("overwrite", false, "Allow writing into non-empty output directories")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in input.fit --out outdir [--overwrite]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*inPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fitexport failed: %v\n", err)
		os.Exit(1)
	}

	act, err := fit.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fitexport failed: decode: %v\n", err)
		os.Exit(1)
	}
	analysis.Enrich(act)

	sink, err := export.NewDirSink(*outDir, *overwrite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fitexport failed: %v\n", err)
		os.Exit(1)
	}

	result, err := export.Write(act, sink, export.Options{SourceName: filepath.Base(*inPath)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fitexport failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("fitexport complete\n")
	fmt.Printf("Output dir:   %s\n", sink.Dir())
	for _, name := range result.Artifacts {
		fmt.Printf("artifact:     %s\n", name)
	}
	fmt.Printf("records: %d | laps: %d | sessions: %d\n", result.RecordCount, result.LapCount, result.SessionCount)
	for _, w := range act.Warnings {
		fmt.Printf("warning:      %s at byte %d\n", w.Code, w.Offset)
	}
}
