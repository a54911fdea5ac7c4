package tools

// optionalInt coerces a JSON tool argument into a positive int.
// Anything absent, mistyped or non-positive collapses to zero so the
// service falls back to the stored default.
func optionalInt(value any) int {
	switch v := value.(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return 0
}
