// Command parselisting reads a copied project page and prints the extracted listing as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bidwriter/backend/internal/infrastructure/pagetext"
	"github.com/bidwriter/backend/internal/usecase"
)

var (
	inputFile = flag.String("file", "", "(-f) Read the page from this file instead of stdin")
	debug     = flag.Bool("debug", false, "(-d) Log parser decisions to stderr")
	compact   = flag.Bool("compact", false, "Print JSON on one line")
)

func init() {
	flag.StringVar(inputFile, "f", "", "(-f) Read the page from this file instead of stdin (shorthand)")
	flag.BoolVar(debug, "d", false, "(-d) Log parser decisions to stderr (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] < page.txt\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	raw, err := readInput(*inputFile)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	extractor := usecase.NewListingExtractor(*debug)
	listing := extractor.Parse(pagetext.Normalize(string(raw)))

	enc := json.NewEncoder(os.Stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(listing); err != nil {
		log.Fatalf("encode listing: %v", err)
	}

	if listing.IsDegraded() {
		os.Exit(2)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
