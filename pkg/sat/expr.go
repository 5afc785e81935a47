package sat

import "github.com/samber/lo"

// Expr is a Boolean constraint over declared variables. Expressions are immutable values and may be
// shared between several assertions.
type Expr interface {
	isExpr()
}

type constExpr bool

var (
	True  Expr = constExpr(true)
	False Expr = constExpr(false)
)

type notExpr struct{ x Expr }

type andExpr struct{ xs []Expr }

type orExpr struct{ xs []Expr }

type impliesExpr struct{ antecedent, consequent Expr }

type intEqExpr struct {
	v     IntVar
	value int
}

type intLessExpr struct{ a, b IntVar }

type intBetweenExpr struct {
	v      IntVar
	lo, hi int
}

type enumIsExpr struct {
	v     EnumVar
	value string
}

type enumSameExpr struct{ a, b EnumVar }

// Term contributes Weight to a pseudo-Boolean sum whenever When holds
type Term struct {
	When   Expr
	Weight int
}

// Sum is a weighted pseudo-Boolean sum. Bounds taken on the same Sum share one encoding.
type Sum struct {
	terms []Term
}

type cardExpr struct {
	sum    *Sum
	bound  int
	atMost bool
}

func (constExpr) isExpr() {}
func (BoolVar) isExpr() {}
func (*notExpr) isExpr() {}
func (*andExpr) isExpr() {}
func (*orExpr) isExpr() {}
func (*impliesExpr) isExpr() {}
func (intEqExpr) isExpr() {}
func (intLessExpr) isExpr() {}
func (intBetweenExpr) isExpr() {}
func (enumIsExpr) isExpr() {}
func (enumSameExpr) isExpr() {}
func (*cardExpr) isExpr() {}

func Not(x Expr) Expr {
	switch x := x.(type) {
	case constExpr:
		return constExpr(!x)
	case *notExpr:
		return x.x
	}
	return &notExpr{x}
}

func And(xs ...Expr) Expr {
	if lo.Contains(xs, False) {
		return False
	}
	xs = lo.Without(xs, True)
	switch len(xs) {
	case 0:
		return True
	case 1:
		return xs[0]
	}
	return &andExpr{xs}
}

func Or(xs ...Expr) Expr {
	if lo.Contains(xs, True) {
		return True
	}
	xs = lo.Without(xs, False)
	switch len(xs) {
	case 0:
		return False
	case 1:
		return xs[0]
	}
	return &orExpr{xs}
}

func Implies(antecedent, consequent Expr) Expr {
	switch {
	case antecedent == False || consequent == True:
		return True
	case antecedent == True:
		return consequent
	}
	return &impliesExpr{antecedent, consequent}
}

// Eq holds when v takes the given value
func (v IntVar) Eq(value int) Expr {
	return intEqExpr{v, value}
}

// Less holds when v is strictly smaller than other
func (v IntVar) Less(other IntVar) Expr {
	return intLessExpr{v, other}
}

// Between holds when lo <= v <= hi
func (v IntVar) Between(lo, hi int) Expr {
	return intBetweenExpr{v, lo, hi}
}

// Is holds when v takes the given value
func (v EnumVar) Is(value string) Expr {
	return enumIsExpr{v, value}
}

// Same holds when v and other take the same value
func (v EnumVar) Same(other EnumVar) Expr {
	return enumSameExpr{v, other}
}

func Weighted(when Expr, weight int) Term {
	return Term{When: when, Weight: weight}
}

// NewSum adds up the weights of the terms that hold. Weights must not be negative.
func NewSum(terms ...Term) *Sum {
	return &Sum{terms: append([]Term(nil), terms...)}
}

func (sum *Sum) AtLeast(bound int) Expr {
	return &cardExpr{sum: sum, bound: bound}
}

func (sum *Sum) AtMost(bound int) Expr {
	return &cardExpr{sum: sum, bound: bound, atMost: true}
}

// Within holds when the sum lies in [lo, hi]
func (sum *Sum) Within(lo, hi int) Expr {
	return And(sum.AtLeast(lo), sum.AtMost(hi))
}

// Value evaluates the sum under a model
func (sum *Sum) Value(model Model) int {
	return sum.value(model)
}

func (sum *Sum) value(values valuation) int {
	total := 0
	for _, term := range sum.terms {
		if evaluate(term.When, values) {
			total += term.Weight
		}
	}
	return total
}

func AtLeast(bound int, terms ...Term) Expr {
	return NewSum(terms...).AtLeast(bound)
}

func AtMost(bound int, terms ...Term) Expr {
	return NewSum(terms...).AtMost(bound)
}

func Within(lo, hi int, terms ...Term) Expr {
	return NewSum(terms...).Within(lo, hi)
}

// valuation gives concrete values to declared variables
type valuation interface {
	Bool(v BoolVar) bool
	Int(v IntVar) int
	Enum(v EnumVar) string
}

func evaluate(expr Expr, values valuation) bool {
	switch expr := expr.(type) {
	case constExpr:
		return bool(expr)
	case BoolVar:
		return values.Bool(expr)
	case *notExpr:
		return !evaluate(expr.x, values)
	case *andExpr:
		return lo.EveryBy(expr.xs, func(x Expr) bool { return evaluate(x, values) })
	case *orExpr:
		return lo.SomeBy(expr.xs, func(x Expr) bool { return evaluate(x, values) })
	case *impliesExpr:
		return !evaluate(expr.antecedent, values) || evaluate(expr.consequent, values)
	case intEqExpr:
		return values.Int(expr.v) == expr.value
	case intLessExpr:
		return values.Int(expr.a) < values.Int(expr.b)
	case intBetweenExpr:
		value := values.Int(expr.v)
		return expr.lo <= value && value <= expr.hi
	case enumIsExpr:
		return values.Enum(expr.v) == expr.value
	case enumSameExpr:
		return values.Enum(expr.a) == values.Enum(expr.b)
	case *cardExpr:
		if expr.atMost {
			return expr.sum.value(values) <= expr.bound
		}
		return expr.sum.value(values) >= expr.bound
	}
	return false
}
