package mir

import (
	"fmt"

	"github.com/marax-lang/marax/internal/diag"
	"github.com/marax-lang/marax/internal/types"
)

// Lowerer converts the type-checked tree into MIR. Storage resolution
// mirrors source scoping with a per-block stack of name-to-local maps
// consulted innermost-out, falling back on the global table.
type Lowerer struct {
	module *Module

	currentFunc  *Function
	currentBlock *BasicBlock

	localCounter int
	blockCounter int

	// scopes is the live frame stack; globals holds module slots.
	scopes  []map[string]Local
	globals map[string]types.Type
}

// NewLowerer creates a lowerer.
func NewLowerer() *Lowerer {
	return &Lowerer{
		globals: make(map[string]types.Type),
	}
}

// Lower lowers a checked program into a module. Errors here indicate
// compiler bugs: the checker admits no program the lowerer rejects.
func (l *Lowerer) Lower(prog *types.Program) (*Module, error) {
	module := &Module{}
	l.module = module

	for _, g := range prog.Globals {
		module.Globals = append(module.Globals, Global{Name: g.Name, Type: g.Type})
		l.globals[g.Name] = g.Type
	}

	for _, fn := range prog.Functions {
		lowered, err := l.lowerFunction(fn)
		if err != nil {
			return nil, err
		}
		module.Functions = append(module.Functions, lowered)
	}

	return module, nil
}

func (l *Lowerer) lowerFunction(fn *types.Function) (*Function, error) {
	l.localCounter = 0
	l.blockCounter = 0
	l.scopes = l.scopes[:0]

	out := &Function{
		Name:       fn.Name,
		ReturnType: fn.Return,
	}
	l.currentFunc = out

	l.pushScope()
	defer l.popScope()
	for _, p := range fn.Params {
		local := l.newLocal(p.Name, p.Type)
		out.Params = append(out.Params, local)
		l.declare(p.Name, local)
	}

	entry := l.newBlock("entry")
	out.Entry = entry
	out.Blocks = append(out.Blocks, entry)
	l.currentBlock = entry

	if err := l.lowerBlock(fn.Body); err != nil {
		return nil, err
	}

	// Falling off the end synthesizes a return: bare for VOID, a
	// zero value otherwise.
	if l.currentBlock.Terminator == nil {
		if types.IsVoid(fn.Return) {
			l.currentBlock.Terminator = &Return{}
		} else {
			l.currentBlock.Terminator = &Return{Value: zeroValue(fn.Return)}
		}
	}

	return out, nil
}

// zeroValue builds the literal a fall-through return yields. Matrices
// are reference types; their zero value is the null reference.
func zeroValue(t types.Type) *Literal {
	switch tt := t.(type) {
	case *types.Primitive:
		switch tt.Kind {
		case types.Int:
			return &Literal{Type: t, Value: int64(0)}
		case types.Float:
			return &Literal{Type: t, Value: float64(0)}
		case types.Bool:
			return &Literal{Type: t, Value: false}
		case types.String:
			return &Literal{Type: t, Value: ""}
		}
	case *types.Matrix:
		return &Literal{Type: tt, Value: nil}
	}
	return &Literal{Type: t, Value: nil}
}

func (l *Lowerer) newLocal(name string, typ types.Type) Local {
	local := Local{
		ID:   l.localCounter,
		Name: name,
		Type: typ,
	}
	l.localCounter++
	return local
}

func (l *Lowerer) newBlock(kind string) *BasicBlock {
	label := fmt.Sprintf("%s%d", kind, l.blockCounter)
	l.blockCounter++
	return &BasicBlock{
		Label:      label,
		Statements: make([]Statement, 0),
	}
}

func (l *Lowerer) addBlock(b *BasicBlock) {
	l.currentFunc.Blocks = append(l.currentFunc.Blocks, b)
}

func (l *Lowerer) emit(s Statement) {
	l.currentBlock.Statements = append(l.currentBlock.Statements, s)
}

func (l *Lowerer) pushScope() {
	l.scopes = append(l.scopes, make(map[string]Local))
}

func (l *Lowerer) popScope() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

func (l *Lowerer) declare(name string, local Local) {
	l.scopes[len(l.scopes)-1][name] = local
}

// resolve finds the storage for name: innermost frame out, then the
// global table.
func (l *Lowerer) resolve(name string) (Operand, error) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if local, ok := l.scopes[i][name]; ok {
			return &LocalRef{Local: local}, nil
		}
	}
	if t, ok := l.globals[name]; ok {
		return &GlobalRef{Name: name, Type: t}, nil
	}
	return nil, internalErrf(diag.CodeInternalUnboundSymbol,
		"no storage for %s", name)
}
