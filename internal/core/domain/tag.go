package domain

// Tag is a single key/value pair attached to a snapshot.
type Tag struct {
	Key   string `json:"Key"   yaml:"key"`
	Value string `json:"Value" yaml:"value"`
}

// TagSet is the ordered tag list of a snapshot. It is the only state the
// recovery lineage persists.
type TagSet []Tag

// Contains reports whether the exact pair is present.
func (s TagSet) Contains(t Tag) bool {
	for _, tag := range s {
		if tag == t {
			return true
		}
	}
	return false
}

// Lookup returns every value stored under key, in order.
func (s TagSet) Lookup(key string) []string {
	var values []string
	for _, tag := range s {
		if tag.Key == key {
			values = append(values, tag.Value)
		}
	}
	return values
}

// Clone returns a copy that can be mutated without touching s.
func (s TagSet) Clone() TagSet {
	if s == nil {
		return nil
	}
	out := make(TagSet, len(s))
	copy(out, s)
	return out
}

// Set replaces the value of the first pair with key. It reports false when
// no pair matched.
func (s TagSet) Set(key, value string) bool {
	for i := range s {
		if s[i].Key == key {
			s[i].Value = value
			return true
		}
	}
	return false
}
