// Command schema emits the JSON schema for the waypoint rules file, so
// editors can validate and autocomplete player-authored rules.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/maltiez2/vsmod-mapmarkers/rules"
)

func main() {
	outPath := flag.String("out", "", "path to write the JSON schema")
	flag.Parse()

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	reflector := jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	schema := reflector.Reflect(new(rules.File))
	schema.Title = "Waypoint Rules"
	schema.Description = "Validates player-authored entries in config/waypoints.json"

	if err := writeSchema(*outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "writing schema: %v\n", err)
		os.Exit(1)
	}
}

// writeSchema lands the schema atomically so an editor never reads a
// half-written file.
func writeSchema(path string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
