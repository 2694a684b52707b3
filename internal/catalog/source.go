package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed data/movies.json
var defaultDataset []byte

// Default decodes the dataset compiled into the binary.
func Default() (Dataset, error) {
	return LoadJSON(bytes.NewReader(defaultDataset))
}

func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// LoadJSON decodes a single dataset document from r. Keys the catalog does
// not know about are ignored.
func LoadJSON(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Dataset{}, fmt.Errorf("decode dataset: extra data after json object")
	}
	if ds.Categories == nil {
		ds.Categories = map[string][]int{}
	}
	return ds, nil
}
