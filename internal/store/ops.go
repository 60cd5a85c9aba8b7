package store

// Position says where Upsert places a record whose key is not yet present.
type Position int

const (
	Back Position = iota
	Front
)

// KeyFunc extracts the identity key of a record.
type KeyFunc[T any] func(T) string

// Upsert returns a new slice in which the element sharing item's key is
// replaced in place, or item is inserted at pos when no element matches.
// If several elements already share the key, the first is replaced and the
// rest are dropped so the result holds one record per key.
func Upsert[T any](items []T, item T, key KeyFunc[T], pos Position) []T {
	k := key(item)
	out := make([]T, 0, len(items)+1)
	replaced := false
	for _, it := range items {
		if key(it) != k {
			out = append(out, it)
			continue
		}
		if !replaced {
			out = append(out, item)
			replaced = true
		}
	}
	if replaced {
		return out
	}
	if pos == Front {
		return append([]T{item}, out...)
	}
	return append(out, item)
}

// Remove returns a new slice without the elements whose key is k. Removing
// an absent key returns an equal copy.
func Remove[T any](items []T, k string, key KeyFunc[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if key(it) != k {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the first element whose key is k.
func Find[T any](items []T, k string, key KeyFunc[T]) (T, bool) {
	for _, it := range items {
		if key(it) == k {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Update applies fn to the element whose key is k, keeping its position.
// It reports false and returns items unchanged when k is absent.
func Update[T any](items []T, k string, key KeyFunc[T], fn func(T) T) ([]T, bool) {
	out := make([]T, len(items))
	copy(out, items)
	for i, it := range out {
		if key(it) == k {
			out[i] = fn(it)
			return out, true
		}
	}
	return items, false
}
