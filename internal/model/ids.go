package model

import "github.com/google/uuid"

// Dedupe returns ids with duplicates removed, keeping first occurrence order.
// The result is never nil so it encodes as [] rather than null.
func Dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Union returns the set union of a and b in order of first appearance
func Union(a, b []uuid.UUID) []uuid.UUID {
	all := make([]uuid.UUID, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return Dedupe(all)
}

// Without returns a de-duplicated copy of ids with id removed
func Without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range Dedupe(ids) {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether id is in ids
func Contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
