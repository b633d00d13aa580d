// Package duplicates buckets fingerprinted images and quarantines every
// member of a bucket that holds more than one image.
package duplicates

import "imagededup/types"

// Groups maps each fingerprint to the records that share it. Records keep
// the order they were added in, and fingerprints keep the order they were
// first seen in.
type Groups struct {
	keys    []types.Fingerprint
	records map[types.Fingerprint][]types.ImageRecord
	total   int
}

// DuplicateSet is a fingerprint bucket with at least two members
type DuplicateSet struct {
	Fingerprint types.Fingerprint
	Records     []types.ImageRecord
}

// Group buckets records by fingerprint. It has no side effects and cannot fail.
func Group(records []types.ImageRecord) *Groups {
	g := &Groups{records: make(map[types.Fingerprint][]types.ImageRecord)}
	for _, rec := range records {
		g.add(rec)
	}
	return g
}

func (g *Groups) add(rec types.ImageRecord) {
	existing, ok := g.records[rec.Fingerprint]
	if !ok {
		g.keys = append(g.keys, rec.Fingerprint)
	}
	g.records[rec.Fingerprint] = append(existing, rec)
	g.total++
}

// Keys returns fingerprints in first-seen order
func (g *Groups) Keys() []types.Fingerprint {
	keys := make([]types.Fingerprint, len(g.keys))
	copy(keys, g.keys)
	return keys
}

// Records returns the members of the fingerprint's bucket in insertion order
func (g *Groups) Records(fp types.Fingerprint) []types.ImageRecord {
	recs := g.records[fp]
	out := make([]types.ImageRecord, len(recs))
	copy(out, recs)
	return out
}

// Len is the number of distinct fingerprints
func (g *Groups) Len() int {
	return len(g.keys)
}

// Total is the number of records across all buckets
func (g *Groups) Total() int {
	return g.total
}

// DuplicateSets returns the buckets holding two or more records
func (g *Groups) DuplicateSets() []DuplicateSet {
	var sets []DuplicateSet
	for _, fp := range g.keys {
		if recs := g.records[fp]; len(recs) > 1 {
			sets = append(sets, DuplicateSet{Fingerprint: fp, Records: g.Records(fp)})
		}
	}
	return sets
}
