package spec

// SegmentSemanticValues holds one semantic key's value for every segment of
// a directional spec. A segment may carry no value for the key.
type SegmentSemanticValues struct {
	key     *keyInfo
	values  []any
	present []bool
}

// SemanticValues builds a column where every segment has a value.
func SemanticValues[T any](key SemanticKey[T], values ...T) SegmentSemanticValues {
	col := SegmentSemanticValues{
		key:     key.k,
		values:  make([]any, len(values)),
		present: make([]bool, len(values)),
	}
	for i, v := range values {
		col.values[i] = v
		col.present[i] = true
	}
	return col
}

// Label returns the label of the column's key.
func (c SegmentSemanticValues) Label() string {
	if c.key == nil {
		return ""
	}
	return c.key.label
}

// Len is the number of segments covered.
func (c SegmentSemanticValues) Len() int { return len(c.values) }

func (c SegmentSemanticValues) at(segment int) (SemanticValue, bool) {
	if !c.present[segment] {
		return SemanticValue{}, false
	}
	return SemanticValue{key: c.key, Value: c.values[segment]}, true
}
