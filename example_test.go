package halyard_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Azhovan/halyard"
)

// Example demonstrates loading a commented configuration file with a
// schema and path-based defaults.
func Example() {
	// Write a configuration file for this example. Comments are allowed.
	dir, err := os.MkdirTemp("", "halyard-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.json")
	content := `{
  // service identity
  "name": "name.foo",
  "age": 18
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		log.Fatal(err)
	}

	cfg, err := halyard.Load(halyard.Options{
		FilePath: path,
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"name", "age"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"age":  map[string]any{"type": "integer", "minimum": float64(0)},
			},
		},
		DefaultValues: map[string]any{
			"address.city": "Ha Noi",
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	m := cfg.(map[string]any)
	fmt.Println("name:", m["name"])
	fmt.Println("city:", m["address"].(map[string]any)["city"])

	// Output:
	// name: name.foo
	// city: Ha Noi
}

// ExampleLoad_failure shows the structured error returned when the file
// does not satisfy the schema.
func ExampleLoad_failure() {
	dir, err := os.MkdirTemp("", "halyard-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"name": "name.foo"}`), 0o600); err != nil {
		log.Fatal(err)
	}

	_, err = halyard.Load(halyard.Options{
		FilePath: path,
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"name", "age"},
		},
	})

	le := err.(*halyard.LoadingError)
	fmt.Println("message:", le.Message)
	fmt.Println("keyword:", le.Labels["keyword"])

	// Output:
	// message: bad attribute
	// keyword: required
}
