package sat

import (
	"fmt"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type intEncoding struct {
	v      IntVar
	values []z.Lit // values[i] holds iff v == v.lo+i
}

type enumEncoding struct {
	v      EnumVar
	domain []string
	index  map[string]int
	values []z.Lit
}

type assertion struct {
	label string
	guard z.Lit
	root  z.Lit
}

// circuit lowers expressions into an and-inverter graph and emits it as CNF. Every declared variable
// is one-hot encoded and every assertion is guarded by its own activation literal, so that any subset
// of assertions can be enabled through assumptions.
type circuit struct {
	c          *logic.C
	bools      []z.Lit
	boolNames  []string
	ints       []intEncoding
	enums      []enumEncoding
	domains    []z.Lit // exactly-one constraints of the declared variables
	assertions []assertion
	labels     map[string]struct{}
	memo       map[Expr]z.Lit
	sums       map[*Sum]*sumEncoding
	errs       []error

	marks             []int8
	flushedDomains    int
	flushedAssertions int
}

func newCircuit() *circuit {
	return &circuit{
		c:      logic.NewCCap(1 << 10),
		labels: make(map[string]struct{}),
		memo:   make(map[Expr]z.Lit),
		sums:   make(map[*Sum]*sumEncoding),
	}
}

func (b *circuit) declareBool(name string) BoolVar {
	v := BoolVar{id: len(b.bools), name: name}
	b.bools = append(b.bools, b.c.Lit())
	b.boolNames = append(b.boolNames, name)
	return v
}

func (b *circuit) declareInt(name string, lo, hi int) IntVar {
	if hi <= lo {
		b.errs = append(b.errs, declarationError{name, fmt.Sprintf("empty domain [%v, %v)", lo, hi)})
		hi = lo + 1
	}
	v := IntVar{id: len(b.ints), name: name, lo: lo, hi: hi}
	values := b.fresh(hi - lo)
	b.ints = append(b.ints, intEncoding{v: v, values: values})
	b.domains = append(b.domains, b.exactlyOne(values))
	return v
}

func (b *circuit) declareEnum(name string, domain []string) EnumVar {
	if len(domain) == 0 {
		b.errs = append(b.errs, declarationError{name, "empty domain"})
		domain = []string{""}
	}
	if duplicates := lo.FindDuplicates(domain); len(duplicates) > 0 {
		b.errs = append(b.errs, declarationError{name, fmt.Sprintf("duplicate values %v", duplicates)})
		domain = lo.Uniq(domain)
	}

	v := EnumVar{id: len(b.enums), name: name}
	values := b.fresh(len(domain))
	b.enums = append(b.enums, enumEncoding{
		v:      v,
		domain: append([]string(nil), domain...),
		index:  lo.SliceToMap(lo.Range(len(domain)), func(i int) (string, int) { return domain[i], i }),
		values: values,
	})
	b.domains = append(b.domains, b.exactlyOne(values))
	return v
}

func (b *circuit) assert(expr Expr, label string) error {
	if _, ok := b.labels[label]; ok {
		return errors.Errorf("duplicate assertion label %q", label)
	}
	errCount := len(b.errs)
	root := b.lit(expr)
	if len(b.errs) > errCount {
		// Keep the session usable, the offending constraint is not recorded
		err := b.errs[errCount]
		b.errs = b.errs[:errCount]
		return errors.Wrapf(err, "cannot assert %q", label)
	}
	b.labels[label] = struct{}{}
	b.assertions = append(b.assertions, assertion{label: label, guard: b.c.Lit(), root: root})
	return nil
}

// err reports declaration problems that were deferred until the session is used
func (b *circuit) err() error {
	if len(b.errs) == 0 {
		return nil
	}
	return b.errs[0]
}

// flush emits everything added since the previous flush to dst
func (b *circuit) flush(dst inter.Adder) {
	domains := b.domains[b.flushedDomains:]
	assertions := b.assertions[b.flushedAssertions:]

	roots := make([]z.Lit, 0, len(domains)+len(assertions))
	roots = append(roots, domains...)
	roots = append(roots, lo.Map(assertions, func(a assertion, _ int) z.Lit { return a.root })...)
	b.marks, _ = b.c.CnfSince(dst, b.marks, roots...)

	for _, domain := range domains {
		dst.Add(domain)
		dst.Add(z.LitNull)
	}
	for _, a := range assertions {
		dst.Add(a.guard.Not())
		dst.Add(a.root)
		dst.Add(z.LitNull)
	}
	b.flushedDomains = len(b.domains)
	b.flushedAssertions = len(b.assertions)
}

func (b *circuit) guards() []z.Lit {
	return lo.Map(b.assertions, func(a assertion, _ int) z.Lit { return a.guard })
}

func (b *circuit) labelOf(guards []z.Lit) []string {
	byGuard := lo.SliceToMap(b.assertions, func(a assertion) (z.Lit, string) { return a.guard, a.label })
	return lo.FilterMap(guards, func(guard z.Lit, _ int) (string, bool) {
		label, ok := byGuard[guard]
		return label, ok
	})
}

func (b *circuit) fresh(n int) []z.Lit {
	return lo.Times(n, func(_ int) z.Lit { return b.c.Lit() })
}

func (b *circuit) exactlyOne(ms []z.Lit) z.Lit {
	atMostOne := make([]z.Lit, 0, len(ms)*(len(ms)-1)/2)
	for i := range ms {
		for j := i + 1; j < len(ms); j++ {
			atMostOne = append(atMostOne, b.c.And(ms[i], ms[j]).Not())
		}
	}
	return b.and(b.or(ms...), b.and(atMostOne...))
}

func (b *circuit) and(ms ...z.Lit) z.Lit {
	if len(ms) == 0 {
		return b.c.T
	}
	return b.c.Ands(ms...)
}

func (b *circuit) or(ms ...z.Lit) z.Lit {
	if len(ms) == 0 {
		return b.c.F
	}
	return b.c.Ors(ms...)
}

func (b *circuit) lit(expr Expr) z.Lit {
	if m, ok := b.memo[expr]; ok {
		return m
	}
	errCount := len(b.errs)
	m := b.lower(expr)
	if len(b.errs) == errCount {
		b.memo[expr] = m
	}
	return m
}

func (b *circuit) lower(expr Expr) z.Lit {
	switch expr := expr.(type) {
	case constExpr:
		if expr {
			return b.c.T
		}
		return b.c.F
	case BoolVar:
		if expr.id >= len(b.bools) || b.boolNames[expr.id] != expr.name {
			b.errs = append(b.errs, errors.Errorf("variable %q was not declared in this session", expr.name))
			return b.c.F
		}
		return b.bools[expr.id]
	case *notExpr:
		return b.lit(expr.x).Not()
	case *andExpr:
		return b.and(lo.Map(expr.xs, func(x Expr, _ int) z.Lit { return b.lit(x) })...)
	case *orExpr:
		return b.or(lo.Map(expr.xs, func(x Expr, _ int) z.Lit { return b.lit(x) })...)
	case *impliesExpr:
		return b.c.Implies(b.lit(expr.antecedent), b.lit(expr.consequent))
	case intEqExpr:
		return b.intBetween(expr.v, expr.value, expr.value)
	case intBetweenExpr:
		return b.intBetween(expr.v, expr.lo, expr.hi)
	case intLessExpr:
		a, ok := b.intEncoding(expr.a)
		if !ok {
			return b.c.F
		}
		other, ok := b.intEncoding(expr.b)
		if !ok {
			return b.c.F
		}
		cases := make([]z.Lit, 0, len(other.values))
		for j, isJ := range other.values {
			smaller := lo.Filter(a.values, func(_ z.Lit, i int) bool { return a.v.lo+i < other.v.lo+j })
			cases = append(cases, b.c.And(isJ, b.or(smaller...)))
		}
		return b.or(cases...)
	case enumIsExpr:
		enum, ok := b.enumEncoding(expr.v)
		if !ok {
			return b.c.F
		}
		i, ok := enum.index[expr.value]
		if !ok {
			b.errs = append(b.errs, errors.Errorf("%q is not in the domain of %q", expr.value, expr.v.name))
			return b.c.F
		}
		return enum.values[i]
	case enumSameExpr:
		a, ok := b.enumEncoding(expr.a)
		if !ok {
			return b.c.F
		}
		other, ok := b.enumEncoding(expr.b)
		if !ok {
			return b.c.F
		}
		cases := make([]z.Lit, 0, len(a.domain))
		for i, value := range a.domain {
			if j, ok := other.index[value]; ok {
				cases = append(cases, b.c.And(a.values[i], other.values[j]))
			}
		}
		return b.or(cases...)
	case *cardExpr:
		return b.card(expr)
	}
	b.errs = append(b.errs, errors.Errorf("unsupported expression %T", expr))
	return b.c.F
}

func (b *circuit) intEncoding(v IntVar) (intEncoding, bool) {
	if v.id >= len(b.ints) || b.ints[v.id].v != v {
		b.errs = append(b.errs, errors.Errorf("variable %q was not declared in this session", v.name))
		return intEncoding{}, false
	}
	return b.ints[v.id], true
}

func (b *circuit) enumEncoding(v EnumVar) (enumEncoding, bool) {
	if v.id >= len(b.enums) || b.enums[v.id].v != v {
		b.errs = append(b.errs, errors.Errorf("variable %q was not declared in this session", v.name))
		return enumEncoding{}, false
	}
	return b.enums[v.id], true
}

func (b *circuit) intBetween(v IntVar, from, to int) z.Lit {
	encoding, ok := b.intEncoding(v)
	if !ok {
		return b.c.F
	}
	in := lo.Filter(encoding.values, func(_ z.Lit, i int) bool { return from <= v.lo+i && v.lo+i <= to })
	return b.or(in...)
}

// sumEncoding is a sorting network over the terms of a sum, where every term is repeated according to
// its weight after dividing all weights by their common divisor. Terms that are constant are folded into
// offset.
type sumEncoding struct {
	cards   *logic.CardSort
	divisor int
	offset  int
}

func (b *circuit) encodeSum(sum *Sum) (*sumEncoding, bool) {
	if encoding, ok := b.sums[sum]; ok {
		return encoding, true
	}
	errCount := len(b.errs)
	encoding := &sumEncoding{}
	ms := make([]z.Lit, 0, len(sum.terms))
	weights := make([]int, 0, len(sum.terms))
	for _, term := range sum.terms {
		if term.Weight < 0 {
			b.errs = append(b.errs, errors.Errorf("negative weight %v in a weighted sum", term.Weight))
			return nil, false
		}
		m := b.lit(term.When)
		switch {
		case term.Weight == 0 || m == b.c.F:
			continue
		case m == b.c.T:
			encoding.offset += term.Weight
			continue
		}
		ms = append(ms, m)
		weights = append(weights, term.Weight)
		encoding.divisor = gcd(encoding.divisor, term.Weight)
	}

	if encoding.divisor > 0 {
		inputs := make([]z.Lit, 0, len(ms))
		for i, m := range ms {
			for range weights[i] / encoding.divisor {
				inputs = append(inputs, m)
			}
		}
		encoding.cards = b.c.CardSort(inputs)
	}
	if len(b.errs) == errCount {
		b.sums[sum] = encoding
	}
	return encoding, true
}

func (b *circuit) card(expr *cardExpr) z.Lit {
	encoding, ok := b.encodeSum(expr.sum)
	if !ok {
		return b.c.F
	}
	bound := expr.bound - encoding.offset
	if encoding.cards == nil {
		if expr.atMost {
			return b.constant(bound >= 0)
		}
		return b.constant(bound <= 0)
	}
	if expr.atMost {
		return encoding.cards.Leq(floorDiv(bound, encoding.divisor))
	}
	return encoding.cards.Geq(-floorDiv(-bound, encoding.divisor))
}

func (b *circuit) constant(value bool) z.Lit {
	if value {
		return b.c.T
	}
	return b.c.F
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
