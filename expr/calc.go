package expr

// CalcMap maps calculate field names to their original calculation text.
// Iteration follows insertion order.
type CalcMap struct {
	names []string
	src   map[string]string
}

func NewCalcMap() *CalcMap {
	return &CalcMap{src: make(map[string]string)}
}

// Set records the calculation of name. Re-setting keeps the original position.
func (m *CalcMap) Set(name, calculation string) {
	if m.src == nil {
		m.src = make(map[string]string)
	}
	if _, ok := m.src[name]; !ok {
		m.names = append(m.names, name)
	}
	m.src[name] = calculation
}

func (m *CalcMap) Get(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m.src[name]
	return s, ok
}

func (m *CalcMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

func (m *CalcMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Frozen returns an independent copy for read-only consumers.
func (m *CalcMap) Frozen() *CalcMap {
	c := NewCalcMap()
	if m == nil {
		return c
	}
	for _, n := range m.names {
		c.Set(n, m.src[n])
	}
	return c
}
