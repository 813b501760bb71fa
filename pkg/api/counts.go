package api

// Counts is the number of requests of each kind which were removed. Kinds with
// nothing removed are absent, never zero.
type Counts map[Kind]int

// Add accumulates other into c.
func (c Counts) Add(other Counts) {
	for k, n := range other {
		if n > 0 {
			c[k] += n
		}
	}
}

func (c Counts) Total() int {
	t := 0
	for _, n := range c {
		t += n
	}
	return t
}

// ByName returns the counts keyed by kind name, for the wire.
func (c Counts) ByName() map[string]int {
	out := make(map[string]int, len(c))
	for k, n := range c {
		if n > 0 {
			out[k.String()] = n
		}
	}
	return out
}

func CountsFromNames(m map[string]int) (Counts, error) {
	out := make(Counts, len(m))
	for name, n := range m {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out[k] = n
		}
	}
	return out, nil
}
