package vm

import "github.com/mirage-lang/mirage/value"

// FunctionSite is where a definefnlabel's body begins, along with the
// signature Call uses to bind arguments. ReturnType is recorded from the
// declaration; Call does not check it.
type FunctionSite struct {
	Params     []string
	ReturnType value.MiType
	Addr       int
}

// LabelTable maps jump labels and function labels to their instruction
// index, built once by a Setup pass over the program before Run starts
// stepping it. This is the Mirage analogue of the teacher's SymbolResolver,
// narrowed to exact-match lookups since jumpunc/jumpc/call never reference
// an offset from a label the way a disassembler resolves an arbitrary
// address to the nearest preceding symbol.
type LabelTable struct {
	labels    map[string]int
	functions map[string]FunctionSite
}

// NewLabelTable creates an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{
		labels:    make(map[string]int),
		functions: make(map[string]FunctionSite),
	}
}

// DefineLabel records a definelabel's position.
func (t *LabelTable) DefineLabel(name string, pos int) {
	t.labels[name] = pos
}

// DefineFunction records a definefnlabel's position and signature.
func (t *LabelTable) DefineFunction(name string, site FunctionSite) {
	t.functions[name] = site
}

// Label looks up a jump target by name.
func (t *LabelTable) Label(name string) (int, bool) {
	pos, ok := t.labels[name]
	return pos, ok
}

// Function looks up a callable function by name.
func (t *LabelTable) Function(name string) (FunctionSite, bool) {
	site, ok := t.functions[name]
	return site, ok
}
