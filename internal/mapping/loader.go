package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mapsynth/internal/diagnostic"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	mf.SetFile(path)

	return mf, nil
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	if mf.Version == "" {
		mf.Version = "1"
	}

	return &mf, nil
}

// SetFile stamps every recorded position with the file name.
func (mf *MappingFile) SetFile(file string) {
	mf.File = file

	stamp := func(l *diagnostic.Location) {
		if l.Line > 0 {
			l.File = file
		}
	}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		stamp(&tm.Loc)
		stamp(&tm.ReverseLoc)

		for j := range tm.Members {
			stamp(&tm.Members[j].Loc)
		}

		for j := range tm.EnumValues {
			stamp(&tm.EnumValues[j].Loc)
		}
	}

	for i := range mf.Types {
		td := &mf.Types[i]
		stamp(&td.Loc)

		for j := range td.Fields {
			stamp(&td.Fields[j].Loc)
		}

		for j := range td.Constructors {
			stamp(&td.Constructors[j].Loc)

			for k := range td.Constructors[j].Params {
				stamp(&td.Constructors[j].Params[k].Loc)
			}
		}

		for j := range td.Values {
			stamp(&td.Values[j].Loc)
		}
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
