package detector

// Aho-Corasick over bytes of normalized (upper-case, whitespace-free) text.
// Pattern ids are ranks: several patterns may share one, and callers ask for
// the lowest rank present so list order decides ties

type acNode struct {
	// trans[b] = next state or -1 if absent
	trans  [256]int
	fail   int
	output []int
}

type acAutomaton struct {
	nodes []acNode
}

func newNode() acNode {
	var n acNode
	for i := range n.trans {
		n.trans[i] = -1
	}
	return n
}

func newAutomaton() *acAutomaton {
	return &acAutomaton{nodes: []acNode{newNode()}}
}

// AddPattern inserts pat under rank
func (a *acAutomaton) AddPattern(pat []byte, rank int) {
	if len(pat) == 0 {
		return
	}
	state := 0
	for _, b := range pat {
		nxt := a.nodes[state].trans[b]
		if nxt == -1 {
			nxt = len(a.nodes)
			a.nodes[state].trans[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, rank)
}

// Build computes failure links breadth first
func (a *acAutomaton) Build() {
	q := make([]int, 0, 64)
	for b := range 256 {
		if s := a.nodes[0].trans[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}
	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := range 256 {
			s := a.nodes[r].trans[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].trans[b] == -1 {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].trans[b]; nxt != -1 && nxt != s {
				a.nodes[s].fail = nxt
			} else {
				a.nodes[s].fail = 0
			}
			a.nodes[s].output = append(a.nodes[s].output, a.nodes[a.nodes[s].fail].output...)
		}
	}
}

// FindAll calls cb(end, rank) for every match; returning false stops the scan
func (a *acAutomaton) FindAll(text []byte, cb func(end, rank int) bool) {
	state := 0
	for i, b := range text {
		for state != 0 && a.nodes[state].trans[b] == -1 {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].trans[b]; nxt != -1 {
			state = nxt
		}
		for _, rank := range a.nodes[state].output {
			if !cb(i+1, rank) {
				return
			}
		}
	}
}

// ranked answers "which is the earliest-listed group with any substring in text"
type ranked struct {
	ac *acAutomaton
}

// newRanked builds a matcher where groups[i] patterns carry rank i
func newRanked(groups [][]string) ranked {
	a := newAutomaton()
	for rank, pats := range groups {
		for _, p := range pats {
			a.AddPattern([]byte(p), rank)
		}
	}
	a.Build()
	return ranked{ac: a}
}

// singles puts each name in its own group so rank equals list position
func singles(names []string) [][]string {
	out := make([][]string, len(names))
	for i, n := range names {
		out[i] = []string{n}
	}
	return out
}

// Lowest returns the lowest matching rank
func (r ranked) Lowest(text string) (int, bool) {
	best := -1
	r.ac.FindAll([]byte(text), func(_, rank int) bool {
		if best == -1 || rank < best {
			best = rank
		}
		return best != 0
	})
	return best, best >= 0
}
