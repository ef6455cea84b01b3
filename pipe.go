package ripple

// Builder constructs a derived publisher from an upstream publisher.
// Operator constructors in the op subpackage have Builder-returning
// counterparts for pipeline composition.
type Builder func(Publisher) Publisher

// Pipe threads p through the builders left to right and returns the
// resulting publisher: Pipe(p, a, b) is b(a(p)).
func Pipe(p Publisher, builders ...Builder) Publisher {
	for _, build := range builders {
		p = build(p)
	}
	return p
}
