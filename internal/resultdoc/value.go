package resultdoc

// Number reports the float64 value of a numeric scalar.
// Booleans are not numbers here.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// EqualsZero reports whether v compares equal to the integer 0 the way the
// cc4s test scripts compare flags: 0, 0.0 and false all qualify; strings,
// nulls and containers never do.
func EqualsZero(v any) bool {
	if b, ok := v.(bool); ok {
		return !b
	}
	n, ok := Number(v)
	return ok && n == 0
}
