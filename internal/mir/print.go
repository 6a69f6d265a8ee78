package mir

import (
	"fmt"
	"strings"

	"github.com/marax-lang/marax/internal/types"
)

// PrettyPrint returns the module's stable textual encoding. Identical
// source yields byte-identical output.
func (m *Module) PrettyPrint() string {
	var b strings.Builder
	for _, g := range m.Globals {
		b.WriteString(fmt.Sprintf("global %s: %s\n", g.Name, typeString(g.Type)))
	}
	if len(m.Globals) > 0 && len(m.Functions) > 0 {
		b.WriteString("\n")
	}
	for i, fn := range m.Functions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fn.PrettyPrint())
		b.WriteString("\n")
	}
	return b.String()
}

// PrettyPrint returns a textual rendering of the function.
func (f *Function) PrettyPrint() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("fn %s(", f.Name))
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", localString(p), typeString(p.Type))
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") -> ")
	b.WriteString(typeString(f.ReturnType))
	b.WriteString(" {\n")

	for _, block := range f.Blocks {
		b.WriteString(block.PrettyPrint())
	}

	b.WriteString("}")
	return b.String()
}

// PrettyPrint returns a textual rendering of the block.
func (bb *BasicBlock) PrettyPrint() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s:\n", bb.Label))
	for _, stmt := range bb.Statements {
		b.WriteString("    ")
		b.WriteString(statementString(stmt))
		b.WriteString("\n")
	}
	if bb.Terminator != nil {
		b.WriteString("    ")
		b.WriteString(terminatorString(bb.Terminator))
		b.WriteString("\n")
	}
	return b.String()
}

func statementString(stmt Statement) string {
	switch s := stmt.(type) {
	case *Assign:
		return fmt.Sprintf("%s = %s", localString(s.Local), operandString(s.RHS))
	case *SetGlobal:
		return fmt.Sprintf("store %s = %s", s.Name, operandString(s.Value))
	case *BinOp:
		return fmt.Sprintf("%s = %s %s, %s",
			localString(s.Result), s.Op, operandString(s.Left), operandString(s.Right))
	case *UnOp:
		return fmt.Sprintf("%s = %s %s", localString(s.Result), s.Op, operandString(s.X))
	case *Call:
		args := operandsString(s.Args)
		if s.Result == nil {
			return fmt.Sprintf("call %s(%s)", s.Func, args)
		}
		return fmt.Sprintf("%s = call %s(%s)", localString(*s.Result), s.Func, args)
	case *Print:
		args := operandsString(s.Args)
		if args == "" {
			return fmt.Sprintf("print %q", s.Format)
		}
		return fmt.Sprintf("print %q, %s", s.Format, args)
	case *MakeMatrix:
		rows := make([]string, len(s.Elements))
		for i, row := range s.Elements {
			rows[i] = "[" + operandsString(row) + "]"
		}
		return fmt.Sprintf("%s = make_matrix [%s]", localString(s.Result), strings.Join(rows, ", "))
	case *MatrixDim:
		return fmt.Sprintf("%s = matrix_dim %s, %d",
			localString(s.Result), operandString(s.Matrix), s.Value)
	default:
		return fmt.Sprintf("<?stmt:%T>", stmt)
	}
}

func terminatorString(term Terminator) string {
	switch t := term.(type) {
	case *Return:
		if t.Value == nil {
			return "ret"
		}
		return fmt.Sprintf("ret %s", operandString(t.Value))
	case *Goto:
		return fmt.Sprintf("goto %s", t.Target.Label)
	case *Branch:
		return fmt.Sprintf("br %s, %s, %s",
			operandString(t.Condition), t.True.Label, t.False.Label)
	default:
		return fmt.Sprintf("<?terminator:%T>", term)
	}
}

func operandsString(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = operandString(op)
	}
	return strings.Join(parts, ", ")
}

func operandString(op Operand) string {
	switch o := op.(type) {
	case *LocalRef:
		return localString(o.Local)
	case *GlobalRef:
		return "@" + o.Name
	case *Literal:
		return literalString(o)
	default:
		return fmt.Sprintf("<?operand:%T>", op)
	}
}

// localString keeps the source name where one exists and suffixes the
// slot id so shadowed names stay distinguishable.
func localString(local Local) string {
	if local.Name == "" {
		return fmt.Sprintf("_%d", local.ID)
	}
	return fmt.Sprintf("%s.%d", local.Name, local.ID)
}

func literalString(lit *Literal) string {
	switch v := lit.Value.(type) {
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return fmt.Sprintf("%q", v)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("<?literal:%T>", v)
	}
}

func typeString(typ types.Type) string {
	if typ == nil {
		return "void"
	}
	return typ.String()
}
