package keywords

// Byte level Aho-Corasick matcher over lowercased UTF-8 phrases.
// Each state keeps a dense 256-way goto table; -1 marks a missing edge

type state struct {
	next [256]int32
	fail int32
	hits []int32 // phrase ids that end here, including those reached via fail links
}

type matcher struct {
	states []state
}

func newState() state {
	var s state
	for i := range s.next {
		s.next[i] = -1
	}
	return s
}

func newMatcher() *matcher {
	return &matcher{states: []state{newState()}}
}

// add inserts phrase with the given id. Empty phrases are ignored
func (m *matcher) add(phrase string, id int) {
	if phrase == "" {
		return
	}
	cur := int32(0)
	for i := 0; i < len(phrase); i++ {
		b := phrase[i]
		nxt := m.states[cur].next[b]
		if nxt == -1 {
			nxt = int32(len(m.states))
			m.states[cur].next[b] = nxt
			m.states = append(m.states, newState())
		}
		cur = nxt
	}
	m.states[cur].hits = append(m.states[cur].hits, int32(id))
}

// compile computes fail links breadth first and folds suffix hits into each state
func (m *matcher) compile() {
	queue := make([]int32, 0, len(m.states))
	for b := range 256 {
		if s := m.states[0].next[b]; s != -1 {
			m.states[s].fail = 0
			queue = append(queue, s)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		r := queue[qi]
		for b := range 256 {
			s := m.states[r].next[b]
			if s == -1 {
				continue
			}
			queue = append(queue, s)

			f := m.states[r].fail
			for f != 0 && m.states[f].next[b] == -1 {
				f = m.states[f].fail
			}
			if nxt := m.states[f].next[b]; nxt != -1 {
				m.states[s].fail = nxt
			}
			m.states[s].hits = append(m.states[s].hits, m.states[m.states[s].fail].hits...)
		}
	}
}

// scan walks text and reports every phrase id found. visit returning false stops the walk
func (m *matcher) scan(text string, visit func(id int) bool) {
	cur := int32(0)
	for i := 0; i < len(text); i++ {
		b := text[i]
		for cur != 0 && m.states[cur].next[b] == -1 {
			cur = m.states[cur].fail
		}
		if nxt := m.states[cur].next[b]; nxt != -1 {
			cur = nxt
		}
		for _, id := range m.states[cur].hits {
			if !visit(int(id)) {
				return
			}
		}
	}
}
