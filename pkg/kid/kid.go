// Package kid declares the operator API contract spec.md §6 describes:
// what a leaf "kid" sees of the runtime core. The core itself never
// implements a kid — kids are the hundred-plus leaf operators spec.md §1
// calls "out of scope" — but the core owns this contract, so it lives
// here rather than in some external operators module.
//
// Grounded on original_source/src/include/waterslide.h's proc_process_t,
// ws_register_source, and the init/input_set/process/destroy module
// lifecycle every leaf operator in the original implements.
package kid

import (
	"github.com/iamNilotpal/tupleflow/pkg/flush"
	"github.com/iamNilotpal/tupleflow/pkg/label"
	"github.com/iamNilotpal/tupleflow/pkg/wsdata"
)

// Metadata declares a kid's identity and option contract, grounded on
// original_source's proc_option_t/proc_port_t/proc_example_t tables a
// module exposes for --help and graph validation.
type Metadata struct {
	Name    string
	Version string

	// InputTypes lists the datatype names this kid accepts on some edge;
	// empty means "any."
	InputTypes []string

	// OutputTypes lists the datatype names this kid may emit.
	OutputTypes []string

	// PortLabels names the kid's named ports, mirroring proc_port_t.
	PortLabels []string
}

// ProcessFunc is the hot-path function negotiated per edge by InputSet,
// mirroring original_source's proc_process_t. It returns whether rec was
// consumed (true) or should be treated as unhandled and passed through
// unchanged by the caller (false).
type ProcessFunc func(state any, rec *wsdata.Record, out *Outlist, flushMsg flush.Message) (handled bool, err error)

// TypeTable is the registry view an init/input_set implementation uses to
// register labels and datatypes, mirroring the `void * type_table`
// parameter threaded through original_source's registration calls.
type TypeTable struct {
	Labels    *label.Registry
	Datatypes *wsdata.Registry
}

// SourceFunc is a kid's source implementation, invoked by the runtime
// scheduler to pull and emit new records — original_source's
// ws_register_source callback.
type SourceFunc func(state any, out *Outlist) (emitted bool, err error)

// SourceView lets an Init implementation register itself as a graph
// source, mirroring ws_register_source's "to be called in proc_init"
// contract.
type SourceView struct {
	register func(name string, fn SourceFunc)
}

// NewSourceView wraps register for use by kid Init implementations.
func NewSourceView(register func(name string, fn SourceFunc)) *SourceView {
	return &SourceView{register: register}
}

// Register declares fn as this kid's source function under name.
func (s *SourceView) Register(name string, fn SourceFunc) {
	s.register(name, fn)
}

// Outtype is one registered output slot a kid may emit through, mirroring
// original_source's ws_outtype_t: an output datatype paired with the port
// label subscribers match against.
type Outtype struct {
	Datatype *wsdata.Datatype
	Label    *label.Label
}

// Outlist is the set of output slots negotiated for one input edge during
// InputSet, mirroring ws_outlist_t/ws_doutput_t. A kid's ProcessFunc calls
// Emit once per record it produces.
type Outlist struct {
	types []*Outtype
	emit  func(rec *wsdata.Record, out *Outtype) error
}

// NewOutlist constructs an Outlist whose Emit calls are routed through
// emit — typically a closure over the runtime's per-edge queue push.
func NewOutlist(emit func(rec *wsdata.Record, out *Outtype) error) *Outlist {
	return &Outlist{emit: emit}
}

// AddOuttype registers a new output slot, mirroring ws_add_outtype.
func (o *Outlist) AddOuttype(dtype *wsdata.Datatype, lbl *label.Label) *Outtype {
	ot := &Outtype{Datatype: dtype, Label: lbl}
	o.types = append(o.types, ot)
	return ot
}

// Outtypes returns the negotiated output slots in registration order.
func (o *Outlist) Outtypes() []*Outtype {
	return o.types
}

// Emit forwards rec through ot, mirroring ws_set_outdata.
func (o *Outlist) Emit(rec *wsdata.Record, ot *Outtype) error {
	return o.emit(rec, ot)
}

// Kid is the lifecycle contract every leaf operator implements, mirroring
// original_source's init/input_set/destroy triad (process_fn is returned
// by InputSet per edge rather than fixed at the Kid level, since a single
// kid can negotiate a different ProcessFunc per input type).
type Kid interface {
	// Metadata describes this kid's identity and declared edges.
	Metadata() Metadata

	// Init runs once per graph instance: argv is the kid's command-line
	// options, tt lets it register labels/datatypes, and sv lets it
	// register as a source. It returns opaque per-instance state threaded
	// through every later call.
	Init(argv []string, tt *TypeTable, sv *SourceView) (state any, err error)

	// InputSet negotiates the per-edge processing function for one input
	// type arriving on port, registering any output types it will emit
	// through out.
	InputSet(state any, inputType *wsdata.Datatype, port string, out *Outlist, tt *TypeTable) (ProcessFunc, error)

	// Destroy runs once at graph shutdown for final cleanup and counter
	// reporting.
	Destroy(state any) error
}
