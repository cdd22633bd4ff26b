package repokit

// Binder binds a domain repo to a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor into a Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// RequireQueryer panics on a nil q
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

// MustBind validates q then binds
func MustBind[T any](b Binder[T], q Queryer) T {
	return b.Bind(RequireQueryer(q))
}

// BindOptional binds when q is present; ok is false for a nil q so callers can
// fall back to an in-memory implementation
func BindOptional[T any](b Binder[T], q Queryer) (T, bool) {
	if q == nil {
		var zero T
		return zero, false
	}
	return b.Bind(q), true
}
