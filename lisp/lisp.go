// Copyright © 2018 The ELPS authors

package lisp

import (
	"strconv"
	"strings"

	"github.com/luthersystems/skim/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LUnspecified is the value of expressions evaluated only for effect
	// (define, set!, display).
	LUnspecified
	// LBool values store a bool in the LVal.Bool field.
	LBool
	// LInt values store an int in the LVal.Int field.
	LInt
	// LFloat values store a float64 in the LVal.Float field.
	LFloat
	// LString values store a string in the LVal.Str field.
	LString
	// LSymbol values store a string representation of the symbol in the
	// LVal.Str field.
	LSymbol
	// LSExpr values are "list" values in lisp and store their values in
	// LVal.Cells.  The empty list is the nil value.
	LSExpr
	// LFun values use the following fields in an LVal:
	// 		LVal.Str      The name used to reference the function (if any)
	// 		LVal.Native   The function implementation
	//
	// Native holds an LBuiltin for functions implemented in Go.  Functions
	// defined in lisp (with lambda or define) store a value owned by the
	// evaluator.
	LFun
	// LPort values store a *Port in the LVal.Native field.
	LPort
	// LEOF is the object returned by read-line at the end of an input port.
	LEOF
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = [LTypeMax]string{
	LInvalid:     "INVALID",
	LUnspecified: "unspecified",
	LBool:        "boolean",
	LInt:         "integer",
	LFloat:       "real",
	LString:      "string",
	LSymbol:      "symbol",
	LSExpr:       "list",
	LFun:         "procedure",
	LPort:        "port",
	LEOF:         "eof-object",
}

func (t LType) String() string {
	if t >= LTypeMax {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LBuiltin is a function implemented in Go.  Arguments are evaluated before
// the function is called.
type LBuiltin func(args []*LVal) (*LVal, error)

// LVal is a lisp value.  Parsed programs are trees of LVal and evaluation
// produces LVal results, the two are not distinguished.
type LVal struct {
	// Native is generic storage for data which cannot be represented as an
	// LVal (and thus can't be stored in Cells).
	Native interface{}

	// Source is the values originating location in source code.  Programs
	// should not modify the contents of Source as the reference may be shared
	// by multiple LVals.
	Source *token.Location

	// Str used by LSymbol and LString values
	Str string

	// Cells used by LSExpr values.
	Cells []*LVal

	// Type is the native type for a value in lisp.
	Type LType

	// Fields used for scalar types.
	Int   int
	Float float64
	Bool  bool
}

// Unspecified returns the value of an expression evaluated for effect.
func Unspecified() *LVal {
	return &LVal{Type: LUnspecified}
}

// Bool returns an LVal representing the boolean b.
func Bool(b bool) *LVal {
	return &LVal{Type: LBool, Bool: b}
}

// Int returns an LVal representing the number x.
func Int(x int) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LVal representation of the number x
func Float(x float64) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{Type: LString, Str: str}
}

// Symbol returns an LVal resprenting the symbol s
func Symbol(s string) *LVal {
	return &LVal{Type: LSymbol, Str: s}
}

// Nil returns the empty list.
func Nil() *LVal {
	return &LVal{Type: LSExpr}
}

// SExpr returns an LVal representing an S-expression, a symbolic expression.
func SExpr(cells []*LVal) *LVal {
	return &LVal{Type: LSExpr, Cells: cells}
}

// Quote returns the list (quote v).
func Quote(v *LVal) *LVal {
	q := SExpr([]*LVal{Symbol("quote"), v})
	q.Source = v.Source
	return q
}

// Fun returns an LVal representing a function implemented in Go.
func Fun(name string, fn LBuiltin) *LVal {
	return &LVal{Type: LFun, Str: name, Native: fn}
}

// EOF returns the end-of-file object.
func EOF() *LVal {
	return &LVal{Type: LEOF}
}

// IsNil returns true if v is the empty list.
func (v *LVal) IsNil() bool {
	return v.Type == LSExpr && len(v.Cells) == 0
}

// IsTrue returns true unless v is the boolean #f.
func (v *LVal) IsTrue() bool {
	return v.Type != LBool || v.Bool
}

// IsNumeric returns true if v has a primitive numeric type (int, float).
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// IsSymbol returns true if v is the symbol name.
func (v *LVal) IsSymbol(name string) bool {
	return v.Type == LSymbol && v.Str == name
}

// Builtin returns the Go implementation of an LFun, if it has one.
func (v *LVal) Builtin() LBuiltin {
	fn, _ := v.Native.(LBuiltin)
	return fn
}

// Port returns the port stored in an LPort value.
func (v *LVal) Port() *Port {
	p, _ := v.Native.(*Port)
	return p
}

// Equal returns true if v and other are structurally equal.  Procedures and
// ports are equal only if they are the same object.
func (v *LVal) Equal(other *LVal) bool {
	if v.IsNumeric() && other.IsNumeric() {
		return v.EqualNum(other)
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LBool:
		return v.Bool == other.Bool
	case LString, LSymbol:
		return v.Str == other.Str
	case LSExpr:
		if len(v.Cells) != len(other.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	case LFun, LPort:
		return v == other
	default:
		return true
	}
}

// EqualNum compares two numeric values, promoting ints to floats when the
// types differ.
func (v *LVal) EqualNum(other *LVal) bool {
	if v.Type == LInt && other.Type == LInt {
		return v.Int == other.Int
	}
	return v.AsFloat() == other.AsFloat()
}

// AsFloat returns the numeric value of v as a float64.
func (v *LVal) AsFloat() float64 {
	if v.Type == LInt {
		return float64(v.Int)
	}
	return v.Float
}

// Copy creates a deep copy of v.  Procedures and ports are reference values
// and their Native data is shared with the copy.
func (v *LVal) Copy() *LVal {
	if v == nil {
		return nil
	}
	cp := &LVal{}
	*cp = *v
	if v.Cells != nil {
		cp.Cells = make([]*LVal, len(v.Cells))
		for i := range v.Cells {
			cp.Cells[i] = v.Cells[i].Copy()
		}
	}
	return cp
}

func (v *LVal) String() string {
	if v == nil {
		return "nothing"
	}
	switch v.Type {
	case LUnspecified:
		return ""
	case LBool:
		if v.Bool {
			return "#t"
		}
		return "#f"
	case LInt:
		return strconv.Itoa(v.Int)
	case LFloat:
		return formatFloat(v.Float)
	case LString:
		return strconv.Quote(v.Str)
	case LSymbol:
		return v.Str
	case LSExpr:
		if len(v.Cells) == 2 && v.Cells[0].IsSymbol("quote") {
			return "'" + v.Cells[1].String()
		}
		return exprString(v.Cells)
	case LFun:
		if v.Str == "" {
			return "#<procedure>"
		}
		return "#<procedure " + v.Str + ">"
	case LPort:
		p := v.Port()
		if p == nil {
			return "#<port>"
		}
		return "#<" + p.Kind.String() + "-port " + p.Name + ">"
	case LEOF:
		return "#<eof>"
	default:
		return "#<" + v.Type.String() + ">"
	}
}

func exprString(cells []*LVal) string {
	var buf strings.Builder
	buf.WriteString("(")
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(")")
	return buf.String()
}

func formatFloat(x float64) string {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		// NaN, Inf, and exponent forms are printed as is.
		return s
	}
	return s + ".0"
}
