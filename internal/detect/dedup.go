package detect

import (
	"github.com/zero-day-ai/maestro/internal/threat"
)

// deduplicator collapses vulnerabilities that share a type and location.
// The first record wins, so Pass-1 hits take precedence over structural
// re-detections of the same weakness. Insertion order is preserved in the
// final list to keep detection output deterministic.
type deduplicator struct {
	seen  map[string]bool
	vulns []threat.Vulnerability
}

func newDeduplicator() *deduplicator {
	return &deduplicator{
		seen: make(map[string]bool),
	}
}

// add records a vulnerability unless one of the same type at the same
// location was already recorded.
func (d *deduplicator) add(v threat.Vulnerability) {
	key := string(v.Type) + "|" + v.Location()
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	d.vulns = append(d.vulns, v)
}

// list returns the deduplicated vulnerabilities in insertion order.
func (d *deduplicator) list() []threat.Vulnerability {
	return d.vulns
}
