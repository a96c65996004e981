// SPDX-License-Identifier: MIT
// Package ctmc: YAML dataset files.
//
// Layout:
//
//	numstates: 3          # optional; inferred as MaxState()+1 when absent
//	labels: [A, B, C]     # optional; names of states 0..n-1
//	examples:
//	  - states:    [0, 1, 0]
//	    durations: [1.0, 1.0, 1.0]

package ctmc

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const opDataset = "Dataset"

// DatasetFile is the on-disk form of a Dataset.
type DatasetFile struct {
	NumStates int      `yaml:"numstates,omitempty"`
	Labels    []string `yaml:"labels,omitempty"`
	Examples  Dataset  `yaml:"examples"`
}

// States returns NumStates, or len(Labels), or MaxState()+1, whichever is
// first to be set.
func (f *DatasetFile) States() int {
	switch {
	case f.NumStates > 0:
		return f.NumStates
	case len(f.Labels) > 0:
		return len(f.Labels)
	default:
		return f.Examples.MaxState() + 1
	}
}

// ReadDataset decodes a YAML dataset from r. Unknown fields are rejected.
func ReadDataset(r io.Reader) (*DatasetFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f DatasetFile
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}

		return nil, ctmcErrorf(opDataset, fmt.Errorf("decode: %w", err))
	}
	if f.NumStates < 0 {
		return nil, ctmcErrorf(opDataset, fmt.Errorf("%w (%d)", ErrBadNumStates, f.NumStates))
	}

	return &f, nil
}

// LoadDataset reads a YAML dataset file.
func LoadDataset(path string) (*DatasetFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ctmcErrorf(opDataset, err)
	}

	return ReadDataset(bytes.NewReader(b))
}

// WriteDataset encodes f as YAML to w.
func WriteDataset(w io.Writer, f *DatasetFile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return ctmcErrorf(opDataset, fmt.Errorf("encode: %w", err))
	}

	return enc.Close()
}
