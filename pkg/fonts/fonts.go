// Package fonts resolves the regular and bold faces a render needs.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
)

// DefaultFamily is the built-in face pair used when no font directory is set.
const DefaultFamily = "LiberationSans"

// Family is one typeface in the two weights the layout uses.
type Family struct {
	Name    string
	Regular []byte
	Bold    []byte
}

// Default returns the embedded Liberation Sans faces.
func Default() Family {
	return Family{
		Name:    DefaultFamily,
		Regular: liberationsansregular.TTF,
		Bold:    liberationsansbold.TTF,
	}
}

// Load reads <dir>/<name>-Regular.ttf and <dir>/<name>-Bold.ttf. An empty dir
// selects the embedded default and ignores name.
func Load(name, dir string) (Family, error) {
	if dir == "" {
		return Default(), nil
	}
	if name == "" {
		return Family{}, fmt.Errorf("font family name is required when a font directory is set")
	}

	regular, err := readFace(dir, name, "Regular")
	if err != nil {
		return Family{}, err
	}
	bold, err := readFace(dir, name, "Bold")
	if err != nil {
		return Family{}, err
	}
	return Family{Name: name, Regular: regular, Bold: bold}, nil
}

func readFace(dir, name, weight string) ([]byte, error) {
	path := filepath.Join(dir, name+"-"+weight+".ttf")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s face: %w", weight, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("read %s face: %s is empty", weight, path)
	}
	return data, nil
}
