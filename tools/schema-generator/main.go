// Command schema-generator writes the composed hydrate.yml JSON schema.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/schema"
)

func main() {
	out := flag.String("out", "hydrate.schema.json", "File to write")
	base := flag.Bool("base", false, "Write only the core sections, without extensions")
	flag.Parse()

	generate := schema.Compose
	if *base {
		generate = config.GenerateSchema
	}
	data, err := generate()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Wrote schema to %s", *out)
}
