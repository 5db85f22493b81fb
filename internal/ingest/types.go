// Package ingest implements the input adapter: parsing a directory of YAML
// service-unit files into Registry insertions. It is where the unit files
// are read and parsed — the resolution core in internal/service never does
// I/O.
package ingest

// Unit is the on-disk schema for one service declaration. A directory of
// units is the closest Go-native analogue to a directory of rc-scripts,
// each naming its own dependencies.
type Unit struct {
	Name     string   `yaml:"name"`
	Need     []string `yaml:"need"`
	Use      []string `yaml:"use"`
	Before   []string `yaml:"before"`
	After    []string `yaml:"after"`
	Provides []string `yaml:"provides"`
	MTime    int64    `yaml:"mtime"`
}
