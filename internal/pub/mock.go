package pub

// Mock records published messages for tests.
type Mock struct {
	// Disabled marks outputs that report as disabled.
	Disabled map[Output]bool
	// Published accumulates messages in arrival order.
	Published []MockMessage
}

type MockMessage struct {
	Out Output
	V   any
}

func NewMock() *Mock {
	return &Mock{Disabled: make(map[Output]bool)}
}

func (m *Mock) Enabled(out Output) bool {
	return !m.Disabled[out]
}

func (m *Mock) Publish(out Output, v any) {
	if !m.Enabled(out) {
		return
	}
	m.Published = append(m.Published, MockMessage{Out: out, V: v})
}

// ByOutput returns the recorded messages for one output.
func (m *Mock) ByOutput(out Output) []any {
	var msgs []any
	for _, p := range m.Published {
		if p.Out == out {
			msgs = append(msgs, p.V)
		}
	}
	return msgs
}
