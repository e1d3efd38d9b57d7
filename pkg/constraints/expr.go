package constraints

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// ExprPrecondition is a Precondition written as an expr-lang expression that
// must evaluate to true. The expression sees:
//
//	name       the key being assigned
//	object     the item
//	container  the container
//	typename   the item's Go type, e.g. "*main.Doc"
//	keys       the container's current keys, when it is a types.Container
//
// For example `not (name startsWith "Z")` or `len(keys) < 100`.
type ExprPrecondition struct {
	source  string
	program *vm.Program
}

// NewExprPrecondition compiles source.
func NewExprPrecondition(source string) (*ExprPrecondition, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("precondition expression must not be empty")
	}
	program, err := expr.Compile(source,
		expr.Env(environment(nil, "")),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile precondition %q: %w", source, err)
	}
	return &ExprPrecondition{source: source, program: program}, nil
}

// MustExprPrecondition is NewExprPrecondition that panics on error.
func MustExprPrecondition(source string) *ExprPrecondition {
	p, err := NewExprPrecondition(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the expression text.
func (p *ExprPrecondition) Source() string { return p.source }

// Check evaluates the expression and wraps ErrInvalid when it is false.
func (p *ExprPrecondition) Check(container any, name string, obj any) error {
	env := environment(container, name)
	env["object"] = obj
	env["typename"] = fmt.Sprintf("%T", obj)
	return p.eval(env, name)
}

// CheckFactory evaluates the expression with object set to nil and typename set
// to the factory's produced type.
func (p *ExprPrecondition) CheckFactory(container any, name string, f Factory) error {
	env := environment(container, name)
	if t := f.Produces(); t != nil {
		env["typename"] = t.String()
	}
	return p.eval(env, name)
}

func (p *ExprPrecondition) eval(env map[string]any, name string) error {
	out, err := expr.Run(p.program, env)
	if err != nil {
		return fmt.Errorf("evaluate precondition %q: %w", p.source, err)
	}
	if ok, _ := out.(bool); !ok {
		return fmt.Errorf("%w: %q rejected %q", ErrInvalid, p.source, name)
	}
	return nil
}

// environment builds the variables an expression sees. NewExprPrecondition
// compiles against the same shape so that the names shadow expr builtins
// such as keys().
func environment(container any, name string) map[string]any {
	keys := []string{}
	if c, ok := container.(types.Container); ok {
		for k := range c.Keys() {
			keys = append(keys, k)
		}
	}
	return map[string]any{
		"name":      name,
		"object":    nil,
		"container": container,
		"typename":  "",
		"keys":      keys,
	}
}
