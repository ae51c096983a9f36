package textutil

// Ternary returns a when cond holds and b otherwise. Mostly used to pick
// between two log attribute values inline.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
