package notebook

// Positional accessors for the loosely typed arrays the service returns.
// Every lookup is bounds- and type-checked; a miss returns the zero value
// with ok=false instead of panicking on an unexpected shape.

func at(v any, i int) (any, bool) {
	list, ok := v.([]any)
	if !ok || i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

func arrAt(v any, i int) ([]any, bool) {
	elem, ok := at(v, i)
	if !ok {
		return nil, false
	}
	list, ok := elem.([]any)
	return list, ok
}

func strAt(v any, i int) (string, bool) {
	elem, ok := at(v, i)
	if !ok {
		return "", false
	}
	s, ok := elem.(string)
	return s, ok
}

func numAt(v any, i int) (float64, bool) {
	elem, ok := at(v, i)
	if !ok {
		return 0, false
	}
	n, ok := elem.(float64)
	return n, ok
}

func boolAt(v any, i int) (bool, bool) {
	elem, ok := at(v, i)
	if !ok {
		return false, false
	}
	b, ok := elem.(bool)
	return b, ok
}

// timeAt reads a [seconds, nanos] pair at position i.
func timeAt(v any, i int) (int64, int64, bool) {
	pair, ok := arrAt(v, i)
	if !ok || len(pair) < 2 {
		return 0, 0, false
	}
	sec, ok := pair[0].(float64)
	if !ok {
		return 0, 0, false
	}
	nanos, ok := pair[1].(float64)
	if !ok {
		return 0, 0, false
	}
	return int64(sec), int64(nanos), true
}
