// Package flush implements the shutdown/checkpoint signal spec.md §6's
// "Flush protocol" and §9's "Flush-by-in-band-record" design note
// describe. original_source threads a distinguished "flush" wsdatatype
// with a dtype_is_exit_flush bit through every edge; spec.md §9 calls for
// re-expressing that as an enum variant of the edge message type instead
// of a special datatype, which is what Kind and Message do here — a kid's
// process function switches on Kind directly rather than type-asserting a
// sentinel record.
package flush

// Kind discriminates an edge message: ordinary data, a periodic
// checkpoint, or the terminal end-of-stream signal.
type Kind int

const (
	// KindData marks a message carrying an ordinary record — not a flush
	// at all.
	KindData Kind = iota

	// KindIntermediate is a periodic checkpoint flush; operators may use
	// it to trigger time-based state eviction before forwarding it.
	KindIntermediate

	// KindTerminal marks graph shutdown. Every operator must either
	// consume it while updating final state, or forward it; a terminal
	// flush must reach every sink before the graph exits (spec.md §6).
	KindTerminal
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindIntermediate:
		return "intermediate"
	case KindTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Message is the discriminant carried alongside a record on an edge.
// Queue producers set Kind on the Item's Aux field (see pkg/queue) so a
// consumer can branch without inspecting the record's datatype.
type Message struct {
	Kind Kind
}

// IsFlush reports whether m represents any flush, intermediate or
// terminal.
func (m Message) IsFlush() bool {
	return m.Kind != KindData
}

// IsTerminal reports whether m is the terminal (shutdown) flush.
func (m Message) IsTerminal() bool {
	return m.Kind == KindTerminal
}

// Intermediate builds a periodic-checkpoint flush message.
func Intermediate() Message {
	return Message{Kind: KindIntermediate}
}

// Terminal builds a graph-shutdown flush message.
func Terminal() Message {
	return Message{Kind: KindTerminal}
}
