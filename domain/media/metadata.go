package media

// Entry is one key/value pair of container metadata
type Entry struct {
	Key   string
	Value string
}

// Metadata is the free-form dictionary of a container, in source order
type Metadata []Entry

// Get returns the value for key and whether it exists
func (m Metadata) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Clone returns an independent copy of the metadata
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	copy(out, m)
	return out
}
