package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/wxapis/node"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression  string
	program     *vm.Program
	helperFuncs map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Record fields are only known at run time
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression:  expression,
		program:     program,
		helperFuncs: c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Match evaluates the filter against one record.
// Runtime failures such as comparing a missing key are reported, not treated as false.
func (f *exprFilter) Match(sc node.StateChanges) (bool, error) {
	env := make(map[string]any, len(f.helperFuncs)+16)
	maps.Copy(env, f.helperFuncs)
	addRecordFields(env, sc)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression:    f.expression,
			TransactionID: sc.TransactionID,
			Err:           err,
		}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	return map[string]any{
		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		// Case-insensitive string helpers. contains, startsWith and endsWith
		// are expr operators and cannot be used as function names.
		"containsFold": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefixFold": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffixFold": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		// Current time
		"now": time.Now,
	}
}
