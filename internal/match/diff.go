// Package match pairs canonical cards between two decks and classifies
// each as unchanged, added, removed, or modified. Matching ignores deck
// order and include structure entirely.
package match

import (
	"sort"

	"nastrandiff/internal/canon"
	"nastrandiff/internal/diag"
)

// Entry is one card on exactly one side of the comparison.
type Entry struct {
	Key  canon.Key
	Card canon.Card
}

// Modified is one identifier-bearing card present on both sides with a
// different field vector, with the per-position detail.
type Modified struct {
	Key    canon.Key
	A      canon.Card
	B      canon.Card
	Deltas []canon.Delta
}

// Result is the immutable outcome of one comparison, the sole artifact
// handed to the rendering layer.
type Result struct {
	Added     []Entry
	Removed   []Entry
	Modified  []Modified
	Unchanged int
}

// Empty reports whether the diff found no semantic differences.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Diff matches the canonical cards of deck A against deck B under the
// given real-value tolerance. Duplicate identifier keys within one deck
// are reported to that deck's reporter; the last card wins, matching
// how solvers read a deck top to bottom.
func Diff(a, b []canon.Card, tol float64, repA, repB diag.Reporter) Result {
	idA, noIDA := partition(a, repA)
	idB, noIDB := partition(b, repB)

	var res Result

	for _, key := range unionKeys(idA, idB) {
		ca, inA := idA[key]
		cb, inB := idB[key]
		switch {
		case inA && inB:
			if canon.FieldsEqual(ca, cb, tol) {
				res.Unchanged++
			} else {
				res.Modified = append(res.Modified, Modified{
					Key: key, A: ca, B: cb,
					Deltas: canon.Deltas(ca, cb, tol),
				})
			}
		case inA:
			res.Removed = append(res.Removed, Entry{Key: key, Card: ca})
		default:
			res.Added = append(res.Added, Entry{Key: key, Card: cb})
		}
	}

	reconcileNoID(&res, noIDA, noIDB)
	sortResult(&res)
	return res
}

// partition splits canonical cards into the identifier-keyed map and
// the per-type no-id groups.
func partition(cards []canon.Card, reporter diag.Reporter) (map[canon.Key]canon.Card, map[canon.Key][]canon.Card) {
	ids := make(map[canon.Key]canon.Card)
	noID := make(map[canon.Key][]canon.Card)
	for _, c := range cards {
		if !c.Key.HasID {
			noID[c.Key] = append(noID[c.Key], c)
			continue
		}
		if prev, dup := ids[c.Key]; dup {
			reporter.Report(diag.CardDuplicateKey, diag.SevWarning, c.Loc,
				"multiple cards share the key "+c.Key.String()+"; the later one is used",
				[]diag.Note{{Loc: prev.Loc, Msg: "earlier card with the same key"}})
		}
		ids[c.Key] = c
	}
	return ids, noID
}

// reconcileNoID matches no-id cards per type as a multiset. Cards are
// grouped by their normalized field vector; equal-vector cards match up
// to the minimum count on either side, consumed in ascending source
// order so the output never depends on map iteration. Unequal no-id
// cards are never paired as Modified: without an identifier there is no
// principled basis for saying which instance corresponds to which, so a
// removal plus an addition is reported instead of a guessed pairing.
func reconcileNoID(res *Result, noIDA, noIDB map[canon.Key][]canon.Card) {
	for _, key := range unionGroupKeys(noIDA, noIDB) {
		groupA := groupByVector(noIDA[key])
		groupB := groupByVector(noIDB[key])

		for _, vec := range unionVectors(groupA, groupB) {
			listA, listB := groupA[vec], groupB[vec]
			matched := len(listA)
			if len(listB) < matched {
				matched = len(listB)
			}
			res.Unchanged += matched
			for _, c := range listA[matched:] {
				res.Removed = append(res.Removed, Entry{Key: key, Card: c})
			}
			for _, c := range listB[matched:] {
				res.Added = append(res.Added, Entry{Key: key, Card: c})
			}
		}
	}
}

func groupByVector(cards []canon.Card) map[string][]canon.Card {
	out := make(map[string][]canon.Card)
	for _, c := range cards {
		vec := c.VectorKey()
		out[vec] = append(out[vec], c)
	}
	for _, group := range out {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Loc.Before(group[j].Loc)
		})
	}
	return out
}

func unionKeys(a, b map[canon.Key]canon.Card) []canon.Key {
	seen := make(map[canon.Key]bool, len(a)+len(b))
	out := make([]canon.Key, 0, len(a)+len(b))
	for k := range a {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func unionGroupKeys(a, b map[canon.Key][]canon.Card) []canon.Key {
	seen := make(map[canon.Key]bool, len(a)+len(b))
	out := make([]canon.Key, 0, len(a)+len(b))
	for k := range a {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func unionVectors(a, b map[string][]canon.Card) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func sortResult(res *Result) {
	sort.Slice(res.Added, func(i, j int) bool { return entryLess(res.Added[i], res.Added[j]) })
	sort.Slice(res.Removed, func(i, j int) bool { return entryLess(res.Removed[i], res.Removed[j]) })
	sort.Slice(res.Modified, func(i, j int) bool {
		if res.Modified[i].Key != res.Modified[j].Key {
			return res.Modified[i].Key.Less(res.Modified[j].Key)
		}
		return res.Modified[i].A.Loc.Before(res.Modified[j].A.Loc)
	})
}

func entryLess(a, b Entry) bool {
	if a.Key != b.Key {
		return a.Key.Less(b.Key)
	}
	return a.Card.Loc.Before(b.Card.Loc)
}
