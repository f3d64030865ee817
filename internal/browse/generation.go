package browse

// Generations tags article requests so that only the response to the most
// recently issued one is applied.
type Generations struct {
	latest uint64
}

// Issue returns the tag for a new request, superseding all earlier ones.
func (g *Generations) Issue() uint64 {
	g.latest++
	return g.latest
}

// Current returns the most recently issued tag.
func (g *Generations) Current() uint64 {
	return g.latest
}

// IsCurrent reports whether a response tagged gen should be applied.
func (g *Generations) IsCurrent(gen uint64) bool {
	return gen != 0 && gen == g.latest
}
