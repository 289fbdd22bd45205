package energy

import (
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/testis/internal/resultdoc"
)

// Set maps energy paths to values.
type Set map[string]float64

// Keys returns the energy paths in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extract collects every energy in doc.
// Non-numeric leaves beneath an energy key (units, labels) are skipped.
func Extract(doc resultdoc.Document) Set {
	set := Set{}
	for k, v := range doc {
		walk(set, []string{escapeSegment(k)}, v, isEnergyKey(k))
	}
	return set
}

func walk(set Set, path []string, v any, inEnergy bool) {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			walk(set, appendPath(path, escapeSegment(k)), elem, inEnergy || isEnergyKey(k))
		}
	case []any:
		for i, elem := range val {
			walk(set, appendPath(path, strconv.Itoa(i)), elem, inEnergy)
		}
	default:
		if !inEnergy {
			return
		}
		if n, ok := resultdoc.Number(val); ok {
			set[strings.Join(path, ".")] = n
		}
	}
}

// appendPath copies so sibling branches never share a backing array.
func appendPath(path []string, segment string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = segment
	return out
}

var segmentEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`)

// escapeSegment keeps a key containing dots from colliding with a nested path.
func escapeSegment(k string) string {
	return segmentEscaper.Replace(k)
}

func isEnergyKey(k string) bool {
	return strings.Contains(strings.ToLower(k), "energy")
}
