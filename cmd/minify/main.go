// Command minify writes minified templates and static assets to dist/ for production,
// or minifies a single file with -input, -output and -type.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"pokermoon/internal/assets"
)

func main() {
	var (
		inputFile  = flag.String("input", "", "Input file path")
		outputFile = flag.String("output", "", "Output file path")
		fileType   = flag.String("type", "", "File type (css, js or html)")
		distDir    = flag.String("dist", "dist", "Output directory when minifying the whole tree")
	)
	flag.Parse()

	m := assets.NewMinifier()

	if *inputFile == "" && *outputFile == "" {
		for _, dir := range []string{"templates", "static"} {
			results, err := assets.MinifyTree(m, dir, *distDir)
			if err != nil {
				log.Fatalf("Error minifying %s: %v", dir, err)
			}
			for _, r := range results {
				fmt.Printf("%s: %d bytes -> %d bytes (%.1f%% reduction)\n", r.Src, r.Before, r.After, r.Reduction())
			}
		}
		fmt.Printf("Minified files are in %s/\n", *distDir)
		return
	}

	if *inputFile == "" || *outputFile == "" || *fileType == "" {
		log.Fatal("Usage: go run ./cmd/minify [-dist=dist] | -input=<file> -output=<file> -type=<css|js|html>")
	}

	mediaType, ok := assets.MediaType("." + strings.ToLower(*fileType))
	if !ok {
		log.Fatalf("Unsupported file type: %s (supported: css, js, html)", *fileType)
	}
	r, err := assets.MinifyFile(m, *inputFile, *outputFile, mediaType)
	if err != nil {
		log.Fatalf("Failed to minify %s: %v", *inputFile, err)
	}
	fmt.Printf("Successfully minified %s -> %s (%.1f%% reduction)\n", r.Src, r.Dst, r.Reduction())
}
