// Package kernel is a small Google Mangle wrapper. A Program is compiled once
// from Datalog source and then evaluated against a fresh in-memory fact store
// on every call, so one Program can serve concurrent pipeline runs.
package kernel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"
)

var (
	// ErrUndeclared is returned for facts or queries naming an unknown predicate.
	ErrUndeclared = errors.New("predicate is not declared")
	// ErrArity is returned when a fact has the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
)

// Fact is a predicate applied to Go values. Strings starting with "/" are
// Mangle names; other strings are string constants.
type Fact struct {
	Predicate string
	Args      []any
}

// String returns the Datalog representation of the fact.
func (f Fact) String() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		switch v := arg.(type) {
		case string:
			if strings.HasPrefix(v, "/") {
				args[i] = v
			} else {
				args[i] = fmt.Sprintf("%q", v)
			}
		case float64:
			args[i] = fmt.Sprintf("%f", v)
		default:
			args[i] = fmt.Sprintf("%v", v)
		}
	}
	return fmt.Sprintf("%s(%s).", f.Predicate, strings.Join(args, ", "))
}

// Program is a compiled rule set.
type Program struct {
	info   *analysis.ProgramInfo
	preds  map[string]ast.PredicateSym
	logger *zap.Logger

	// mu serializes evaluation; the compiled program is shared.
	mu sync.Mutex
}

// Compile parses and analyzes Datalog source.
func Compile(source string, logger *zap.Logger) (*Program, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	unit, err := parse.Unit(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze program: %w", err)
	}

	preds := make(map[string]ast.PredicateSym, len(info.Decls))
	for sym := range info.Decls {
		preds[sym.Symbol] = sym
	}
	for _, clause := range info.Rules {
		preds[clause.Head.Predicate.Symbol] = clause.Head.Predicate
	}
	logger.Debug("compiled program", zap.Int("predicates", len(preds)), zap.Int("rules", len(info.Rules)))
	return &Program{info: info, preds: preds, logger: logger}, nil
}

// MustCompile is Compile for programs embedded in the binary.
func MustCompile(source string) *Program {
	p, err := Compile(source, nil)
	if err != nil {
		panic(err)
	}
	return p
}

// Predicates lists the declared and derived predicate names.
func (p *Program) Predicates() []string {
	out := make([]string, 0, len(p.preds))
	for name := range p.preds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Evaluate loads facts into a fresh store and runs the rules to fixpoint.
func (p *Program) Evaluate(facts []Fact) (*Result, error) {
	store := factstore.NewSimpleInMemoryStore()
	for _, f := range facts {
		atom, err := p.atom(f)
		if err != nil {
			return nil, err
		}
		store.Add(atom)
	}

	p.mu.Lock()
	stats, err := mengine.EvalProgramWithStats(p.info, store)
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate program: %w", err)
	}
	p.logger.Debug("evaluated program", zap.Int("facts", len(facts)), zap.Any("stats", stats))
	return &Result{store: store, preds: p.preds}, nil
}

func (p *Program) atom(f Fact) (ast.Atom, error) {
	sym, ok := p.preds[f.Predicate]
	if !ok {
		return ast.Atom{}, fmt.Errorf("%s: %w", f.Predicate, ErrUndeclared)
	}
	if len(f.Args) != sym.Arity {
		return ast.Atom{}, fmt.Errorf("%s expects %d args, got %d: %w", f.Predicate, sym.Arity, len(f.Args), ErrArity)
	}
	args := make([]ast.BaseTerm, len(f.Args))
	for i, raw := range f.Args {
		term, err := toTerm(raw)
		if err != nil {
			return ast.Atom{}, fmt.Errorf("%s arg %d: %w", f.Predicate, i, err)
		}
		args[i] = term
	}
	return ast.Atom{Predicate: sym, Args: args}, nil
}

// Result holds the facts derived by one evaluation.
type Result struct {
	store factstore.FactStore
	preds map[string]ast.PredicateSym
}

// Facts returns every fact of a predicate, sorted by their Datalog text.
func (r *Result) Facts(predicate string) ([]Fact, error) {
	sym, ok := r.preds[predicate]
	if !ok {
		return nil, fmt.Errorf("%s: %w", predicate, ErrUndeclared)
	}
	var out []Fact
	err := r.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		args := make([]any, len(atom.Args))
		for i, arg := range atom.Args {
			args[i] = fromTerm(arg)
		}
		out = append(out, Fact{Predicate: predicate, Args: args})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// Has reports whether the exact fact was derived.
func (r *Result) Has(f Fact) bool {
	facts, err := r.Facts(f.Predicate)
	if err != nil {
		return false
	}
	want := f.String()
	for _, got := range facts {
		if got.String() == want {
			return true
		}
	}
	return false
}

// =============================================================================
// TERM CONVERSION
// =============================================================================

func toTerm(v any) (ast.BaseTerm, error) {
	switch v := v.(type) {
	case string:
		if strings.HasPrefix(v, "/") {
			return ast.Name(v)
		}
		return ast.String(v), nil
	case int:
		return ast.Number(int64(v)), nil
	case int64:
		return ast.Number(v), nil
	case float64:
		return ast.Float64(v), nil
	case bool:
		if v {
			return ast.TrueConstant, nil
		}
		return ast.FalseConstant, nil
	default:
		return nil, fmt.Errorf("unsupported argument type %T", v)
	}
}

func fromTerm(term ast.BaseTerm) any {
	c, ok := term.(ast.Constant)
	if !ok {
		return fmt.Sprintf("%v", term)
	}
	switch c.Type {
	case ast.StringType, ast.NameType:
		return c.Symbol
	case ast.NumberType:
		return c.NumValue
	case ast.Float64Type:
		return math.Float64frombits(uint64(c.NumValue))
	default:
		return c.String()
	}
}
