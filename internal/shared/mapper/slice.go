package mapper

// MapSlice applies fn to every element. A nil input gives a nil result so
// JSON encodes absent lists as null only when they were never loaded.
func MapSlice[T any, R any](items []T, fn func(T) R) []R {
	if items == nil {
		return nil
	}
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// MapSliceErr is MapSlice for conversions that can fail.
func MapSliceErr[T any, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]R, 0, len(items))
	for _, item := range items {
		r, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
