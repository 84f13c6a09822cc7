package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"penplot/pkg/cfg"
	"penplot/pkg/gcode"
)

func main() {
	configPath := flag.String("config", "", "machine profile TOML (defaults built in)")
	out := flag.String("out", "", "output file (default stdout)")
	smoothness := flag.Int("smoothness", 0, "override samples per curve segment")
	simplify := flag.Float64("simplify", 0, "simplification tolerance in mm (0 disables)")
	optimize := flag.Bool("optimize", false, "reorder shapes to reduce pen-up travel")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] svg-file\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	profile := cfg.Default()
	if *configPath != "" {
		var err error
		profile, err = cfg.Load(*configPath)
		if err != nil {
			log.Fatalf("config error: %s", err)
		}
	}
	opts := profile.Options()
	if *smoothness > 0 {
		opts.Smoothness = *smoothness
	}
	if *simplify > 0 {
		opts.SimplifyTolerance = *simplify
	}
	if *optimize {
		opts.OptimizeTravel = true
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("file read error: %s", err)
	}

	program, err := gcode.Convert(data, opts)
	if err != nil {
		log.Fatalf("conversion error: %s", err)
	}

	if *out == "" {
		fmt.Print(program)
		return
	}
	if err := os.WriteFile(*out, []byte(program), 0o644); err != nil {
		log.Fatalf("file write error: %s", err)
	}
}
