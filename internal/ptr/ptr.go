// Package ptr converts between optional values and pointers.
package ptr

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// If returns a pointer to v when valid is set and nil otherwise.
// Nullable SQL columns scan into a value and a Valid flag; If turns the pair
// into the pointer form used by the domain types.
func If[T any](v T, valid bool) *T {
	if !valid {
		return nil
	}
	return &v
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
