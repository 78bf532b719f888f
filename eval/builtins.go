// Copyright © 2018 The ELPS authors

package eval

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/skim/lisp"
	"github.com/luthersystems/skim/serr"
)

// variadic marks a builtin without a maximum argument count.
const variadic = -1

type builtin struct {
	name string
	min  int
	max  int
	fn   lisp.LBuiltin
}

func (ev *Evaluator) builtins() []builtin {
	return []builtin{
		{"+", 0, variadic, builtinAdd},
		{"-", 1, variadic, builtinSub},
		{"*", 0, variadic, builtinMul},
		{"/", 1, variadic, builtinDiv},
		{"quotient", 2, 2, builtinQuotient},
		{"remainder", 2, 2, builtinRemainder},
		{"=", 1, variadic, compareNum(func(c int) bool { return c == 0 })},
		{"<", 1, variadic, compareNum(func(c int) bool { return c < 0 })},
		{">", 1, variadic, compareNum(func(c int) bool { return c > 0 })},
		{"<=", 1, variadic, compareNum(func(c int) bool { return c <= 0 })},
		{">=", 1, variadic, compareNum(func(c int) bool { return c >= 0 })},
		{"not", 1, 1, builtinNot},
		{"eq?", 2, 2, builtinEq},
		{"equal?", 2, 2, builtinEqual},
		{"cons", 2, 2, builtinCons},
		{"car", 1, 1, builtinCar},
		{"cdr", 1, 1, builtinCdr},
		{"list", 0, variadic, builtinList},
		{"length", 1, 1, builtinLength},
		{"list-ref", 2, 2, builtinListRef},
		{"null?", 1, 1, predicate(func(v *lisp.LVal) bool { return v.IsNil() })},
		{"pair?", 1, 1, predicate(func(v *lisp.LVal) bool { return v.Type == lisp.LSExpr && !v.IsNil() })},
		{"number?", 1, 1, predicate((*lisp.LVal).IsNumeric)},
		{"string?", 1, 1, predicate(isType(lisp.LString))},
		{"symbol?", 1, 1, predicate(isType(lisp.LSymbol))},
		{"procedure?", 1, 1, predicate(isType(lisp.LFun))},
		{"eof-object?", 1, 1, predicate(isType(lisp.LEOF))},
		{"string-length", 1, 1, builtinStringLength},
		{"string-append", 0, variadic, builtinStringAppend},
		{"string-ref", 2, 2, builtinStringRef},
		{"substring", 2, 3, builtinSubstring},
		{"number->string", 1, 1, builtinNumberToString},
		{"string->number", 1, 1, builtinStringToNumber},
		{"symbol->string", 1, 1, builtinSymbolToString},
		{"string->symbol", 1, 1, builtinStringToSymbol},
		{"exact->inexact", 1, 1, builtinExactToInexact},
		{"inexact->exact", 1, 1, builtinInexactToExact},
		{"error", 1, variadic, builtinError},
		{"getenv", 1, 1, builtinGetenv},
		{"display", 1, 2, ev.builtinDisplay},
		{"newline", 0, 1, ev.builtinNewline},
		{"write-string", 1, 2, ev.builtinWriteString},
		{"read-line", 0, 1, ev.builtinReadLine},
		{"open-input-file", 1, 1, builtinOpenInputFile},
		{"open-output-file", 1, 1, builtinOpenOutputFile},
		{"close-port", 1, 1, builtinClosePort},
	}
}

func (ev *Evaluator) defineBuiltins() {
	for _, b := range ev.builtins() {
		ev.Global.Define(b.name, lisp.Fun(b.name, checkArity(b)))
	}
	ev.Global.Define("apply", &lisp.LVal{Type: lisp.LFun, Str: "apply", Native: applyFunc{}})
}

func checkArity(b builtin) lisp.LBuiltin {
	return func(args []*lisp.LVal) (*lisp.LVal, error) {
		if len(args) < b.min {
			return serr.BailWith[*lisp.LVal](serr.NewWrongArgCount(b.min, len(args)))
		}
		if b.max != variadic && len(args) > b.max {
			return serr.BailWith[*lisp.LVal](serr.NewWrongArgCount(b.max, len(args)))
		}
		return b.fn(args)
	}
}

func predicate(fn func(*lisp.LVal) bool) lisp.LBuiltin {
	return func(args []*lisp.LVal) (*lisp.LVal, error) {
		return lisp.Bool(fn(args[0])), nil
	}
}

func isType(typ lisp.LType) func(*lisp.LVal) bool {
	return func(v *lisp.LVal) bool { return v.Type == typ }
}

func requireType(typ lisp.LType, v *lisp.LVal) error {
	if v.Type != typ {
		return serr.NewTypeMismatch(typ.String(), v)
	}
	return nil
}

func requireNumbers(args []*lisp.LVal) error {
	for _, a := range args {
		if !a.IsNumeric() {
			return serr.NewTypeMismatch("number", a)
		}
	}
	return nil
}

func anyFloat(args []*lisp.LVal) bool {
	for _, a := range args {
		if a.Type == lisp.LFloat {
			return true
		}
	}
	return false
}

func isZero(v *lisp.LVal) bool {
	if v.Type == lisp.LInt {
		return v.Int == 0
	}
	return v.Float == 0
}

func builtinAdd(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireNumbers(args); err != nil {
		return nil, err
	}
	if anyFloat(args) {
		var sum float64
		for _, a := range args {
			sum += a.AsFloat()
		}
		return lisp.Float(sum), nil
	}
	var sum int
	for _, a := range args {
		sum += a.Int
	}
	return lisp.Int(sum), nil
}

func builtinSub(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireNumbers(args); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if args[0].Type == lisp.LInt {
			return lisp.Int(-args[0].Int), nil
		}
		return lisp.Float(-args[0].Float), nil
	}
	if anyFloat(args) {
		diff := args[0].AsFloat()
		for _, a := range args[1:] {
			diff -= a.AsFloat()
		}
		return lisp.Float(diff), nil
	}
	diff := args[0].Int
	for _, a := range args[1:] {
		diff -= a.Int
	}
	return lisp.Int(diff), nil
}

func builtinMul(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireNumbers(args); err != nil {
		return nil, err
	}
	if anyFloat(args) {
		prod := 1.0
		for _, a := range args {
			prod *= a.AsFloat()
		}
		return lisp.Float(prod), nil
	}
	prod := 1
	for _, a := range args {
		prod *= a.Int
	}
	return lisp.Int(prod), nil
}

// builtinDiv returns an integer when every division is exact.
func builtinDiv(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireNumbers(args); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		args = []*lisp.LVal{lisp.Int(1), args[0]}
	}
	acc := args[0]
	for _, a := range args[1:] {
		if isZero(a) {
			return serr.Fail[*lisp.LVal](serr.KindDivisionByZero)
		}
		if acc.Type == lisp.LInt && a.Type == lisp.LInt && acc.Int%a.Int == 0 {
			acc = lisp.Int(acc.Int / a.Int)
			continue
		}
		acc = lisp.Float(acc.AsFloat() / a.AsFloat())
	}
	return acc, nil
}

func integerArgs(args []*lisp.LVal) error {
	for _, a := range args {
		if err := requireType(lisp.LInt, a); err != nil {
			return err
		}
	}
	return nil
}

func builtinQuotient(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := integerArgs(args); err != nil {
		return nil, err
	}
	if args[1].Int == 0 {
		return serr.Fail[*lisp.LVal](serr.KindDivisionByZero)
	}
	return lisp.Int(args[0].Int / args[1].Int), nil
}

func builtinRemainder(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := integerArgs(args); err != nil {
		return nil, err
	}
	if args[1].Int == 0 {
		return serr.Fail[*lisp.LVal](serr.KindDivisionByZero)
	}
	return lisp.Int(args[0].Int % args[1].Int), nil
}

func compare(a, b *lisp.LVal) int {
	if a.Type == lisp.LInt && b.Type == lisp.LInt {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	}
	x, y := a.AsFloat(), b.AsFloat()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareNum(ok func(int) bool) lisp.LBuiltin {
	return func(args []*lisp.LVal) (*lisp.LVal, error) {
		if err := requireNumbers(args); err != nil {
			return nil, err
		}
		for i := 1; i < len(args); i++ {
			if !ok(compare(args[i-1], args[i])) {
				return lisp.Bool(false), nil
			}
		}
		return lisp.Bool(true), nil
	}
}

func builtinNot(args []*lisp.LVal) (*lisp.LVal, error) {
	return lisp.Bool(!args[0].IsTrue()), nil
}

// builtinEq compares atoms by value and everything else by identity.
func builtinEq(args []*lisp.LVal) (*lisp.LVal, error) {
	a, b := args[0], args[1]
	if a == b {
		return lisp.Bool(true), nil
	}
	if a.Type != b.Type {
		return lisp.Bool(false), nil
	}
	switch a.Type {
	case lisp.LInt, lisp.LFloat, lisp.LBool, lisp.LSymbol, lisp.LEOF, lisp.LUnspecified:
		return lisp.Bool(a.Equal(b)), nil
	case lisp.LSExpr:
		return lisp.Bool(a.IsNil() && b.IsNil()), nil
	}
	return lisp.Bool(false), nil
}

func builtinEqual(args []*lisp.LVal) (*lisp.LVal, error) {
	return lisp.Bool(args[0].Equal(args[1])), nil
}

func builtinCons(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LSExpr, args[1]); err != nil {
		return nil, err
	}
	cells := make([]*lisp.LVal, 0, len(args[1].Cells)+1)
	cells = append(cells, args[0])
	cells = append(cells, args[1].Cells...)
	return lisp.SExpr(cells), nil
}

func requirePair(v *lisp.LVal) error {
	if v.Type != lisp.LSExpr || v.IsNil() {
		return serr.NewTypeMismatch("pair", v)
	}
	return nil
}

func builtinCar(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requirePair(args[0]); err != nil {
		return nil, err
	}
	return args[0].Cells[0], nil
}

func builtinCdr(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requirePair(args[0]); err != nil {
		return nil, err
	}
	return lisp.SExpr(args[0].Cells[1:]), nil
}

func builtinList(args []*lisp.LVal) (*lisp.LVal, error) {
	cells := make([]*lisp.LVal, len(args))
	copy(cells, args)
	return lisp.SExpr(cells), nil
}

func builtinLength(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LSExpr, args[0]); err != nil {
		return nil, err
	}
	return lisp.Int(len(args[0].Cells)), nil
}

func builtinListRef(args []*lisp.LVal) (*lisp.LVal, error) {
	lst, k := args[0], args[1]
	if err := requireType(lisp.LSExpr, lst); err != nil {
		return nil, err
	}
	if err := requireType(lisp.LInt, k); err != nil {
		return nil, err
	}
	if k.Int < 0 || k.Int >= len(lst.Cells) {
		return serr.BailWith[*lisp.LVal](serr.NewIndexOutOfBounds(len(lst.Cells), k.Int))
	}
	return lst.Cells[k.Int], nil
}

func builtinStringLength(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	return lisp.Int(utf8.RuneCountInString(args[0].Str)), nil
}

func builtinStringAppend(args []*lisp.LVal) (*lisp.LVal, error) {
	var buf strings.Builder
	for _, a := range args {
		if err := requireType(lisp.LString, a); err != nil {
			return nil, err
		}
		buf.WriteString(a.Str)
	}
	return lisp.String(buf.String()), nil
}

// builtinStringRef returns the character at index k as a string of length
// one.
func builtinStringRef(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	if err := requireType(lisp.LInt, args[1]); err != nil {
		return nil, err
	}
	runes := []rune(args[0].Str)
	k := args[1].Int
	if k < 0 || k >= len(runes) {
		return serr.BailWith[*lisp.LVal](serr.NewIndexOutOfBounds(len(runes), k))
	}
	return lisp.String(string(runes[k])), nil
}

func builtinSubstring(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	if err := integerArgs(args[1:]); err != nil {
		return nil, err
	}
	runes := []rune(args[0].Str)
	start, end := args[1].Int, len(runes)
	if len(args) == 3 {
		end = args[2].Int
	}
	if end < 0 || end > len(runes) {
		return serr.BailWith[*lisp.LVal](serr.NewIndexOutOfBounds(len(runes), end))
	}
	if start < 0 || start > end {
		return serr.BailWith[*lisp.LVal](serr.NewIndexOutOfBounds(end, start))
	}
	return lisp.String(string(runes[start:end])), nil
}

func builtinNumberToString(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireNumbers(args); err != nil {
		return nil, err
	}
	return lisp.String(args[0].String()), nil
}

func builtinStringToNumber(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	s := strings.TrimSpace(args[0].Str)
	if x, err := strconv.Atoi(s); err == nil {
		return lisp.Int(x), nil
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return lisp.Float(x), nil
	}
	return serr.BailWith[*lisp.LVal](serr.NewCast("number", args[0]))
}

func builtinSymbolToString(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LSymbol, args[0]); err != nil {
		return nil, err
	}
	return lisp.String(args[0].Str), nil
}

func builtinStringToSymbol(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	if args[0].Str == "" {
		return serr.BailWith[*lisp.LVal](serr.NewCast("symbol", args[0]))
	}
	return lisp.Symbol(args[0].Str), nil
}

func builtinExactToInexact(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireNumbers(args); err != nil {
		return nil, err
	}
	return lisp.Float(args[0].AsFloat()), nil
}

// builtinInexactToExact truncates toward zero.  Values with no integer
// representation fail to convert.
func builtinInexactToExact(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireNumbers(args); err != nil {
		return nil, err
	}
	if args[0].Type == lisp.LInt {
		return args[0], nil
	}
	x := math.Trunc(args[0].Float)
	if math.IsNaN(x) || x >= math.MaxInt64 || x < math.MinInt64 {
		return serr.BailWith[*lisp.LVal](serr.NewCast("integer", args[0]))
	}
	return lisp.Int(int(x)), nil
}

// (error message irritant...)
func builtinError(args []*lisp.LVal) (*lisp.LVal, error) {
	var buf strings.Builder
	buf.WriteString(displayString(args[0]))
	for _, a := range args[1:] {
		buf.WriteString(" ")
		buf.WriteString(a.String())
	}
	return serr.Bail[*lisp.LVal](buf.String())
}

func builtinGetenv(args []*lisp.LVal) (*lisp.LVal, error) {
	if err := requireType(lisp.LString, args[0]); err != nil {
		return nil, err
	}
	val, err := serr.Getenv(args[0].Str)
	if err != nil {
		return nil, err
	}
	return lisp.String(val), nil
}

// displayString renders v the way display prints it, strings without quotes.
func displayString(v *lisp.LVal) string {
	if v.Type == lisp.LString {
		return v.Str
	}
	return v.String()
}
