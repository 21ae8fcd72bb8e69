package wizard

import (
	"fmt"

	"github.com/primelife/signup/internal/models"
)

// addDependent appends an empty dependent when the plan quota allows it.
// It reports false, leaving s untouched, once the quota is reached.
func addDependent(s models.State) (models.State, bool) {
	if !s.CanAddDependent() {
		return s, false
	}
	next := s.Clone()
	next.Dependents = append(next.Dependents, models.Person{})
	return next, true
}

// removeDependent drops the dependent at index i, shifting later ones left.
func removeDependent(s models.State, i int) (models.State, error) {
	if i < 0 || i >= len(s.Dependents) {
		return models.State{}, fmt.Errorf("%w: %d of %d", ErrDependentIndex, i, len(s.Dependents))
	}
	next := s.Clone()
	next.Dependents = append(next.Dependents[:i:i], next.Dependents[i+1:]...)
	if len(next.Dependents) == 0 {
		next.Dependents = nil
	}
	return next, nil
}
