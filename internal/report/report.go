// Package report renders a resolved service.Registry as data: a plain
// struct slice for JSON output, and a JMESPath query surface over it for
// callers that only want a slice of the graph (e.g. "which services are
// broken").
package report

import (
	"encoding/json"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/svcinit/depengine/internal/service"
)

// Entry is one resolved service's relation sets, tagged for JSON output.
type Entry struct {
	Name   string   `json:"name"`
	Need   []string `json:"need,omitempty"`
	Use    []string `json:"use,omitempty"`
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
	Broken []string `json:"broken,omitempty"`
}

// Build snapshots every record in registry, in its canonical sorted order.
func Build(registry *service.Registry) []Entry {
	recs := registry.Enumerate()
	out := make([]Entry, len(recs))
	for i, rec := range recs {
		out[i] = Entry{
			Name:   rec.Name,
			Need:   rec.Relations(service.Need),
			Use:    rec.Relations(service.Use),
			Before: rec.Relations(service.Before),
			After:  rec.Relations(service.After),
			Broken: rec.Relations(service.Broken),
		}
	}
	return out
}

// Query evaluates a JMESPath expression against entries and returns the
// matched result, ready to be JSON-marshaled. entries is round-tripped
// through encoding/json first so the query sees plain maps and slices
// rather than Entry's Go struct tags.
func Query(expr string, entries []Entry) (any, error) {
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("report: invalid query %q: %w", expr, err)
	}

	data, err := toGeneric(entries)
	if err != nil {
		return nil, fmt.Errorf("report: marshal entries: %w", err)
	}

	result, err := jmespath.Search(expr, data)
	if err != nil {
		return nil, fmt.Errorf("report: evaluate query %q: %w", expr, err)
	}
	return result, nil
}

// toGeneric round-trips v through JSON so jmespath.Search sees
// map[string]any/[]any rather than Entry's concrete struct type.
func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
