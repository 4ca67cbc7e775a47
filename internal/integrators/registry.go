package integrators

import (
	"fmt"
	"sort"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
)

const Default = "leapfrog"

var registry = map[string]func() dynamo.Integrator{
	"euler":    func() dynamo.Integrator { return NewEuler() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
	"verlet":   func() dynamo.Integrator { return NewVerlet() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
}

// Get returns a fresh integrator registered under name.
func Get(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownIntegrator, name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
