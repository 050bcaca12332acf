// Package workflow implementa un asistente por pasos declarativo: cada paso dice si es requerido y si
// está completo a partir de la configuración viva, y el motor decide a qué pasos se puede avanzar.
// El motor no guarda estado: la posición actual la lleva quien lo usa.
package workflow

import (
	"fmt"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// Step descriptor sin estado de un paso. Required nil = siempre requerido; Complete nil = siempre completo.
type Step[C any] struct {
	ID       string
	Title    string
	Required func(C) bool
	Complete func(C) bool
}

// IsRequired evalúa la obligatoriedad contra la configuración.
func (s Step[C]) IsRequired(c C) bool {
	if s.Required == nil {
		return true
	}
	return s.Required(c)
}

// IsComplete evalúa el predicado de completitud contra la configuración.
func (s Step[C]) IsComplete(c C) bool {
	if s.Complete == nil {
		return true
	}
	return s.Complete(c)
}

// Status foto del estado de un paso para mostrar en la interfaz.
type Status struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	Required  bool   `json:"required"`
	Complete  bool   `json:"complete"`
	Reachable bool   `json:"reachable"`
	Current   bool   `json:"current"`
}

// Engine máquina de estados sobre una lista ordenada de pasos. Estados = índices 0..N−1,
// inicial 0, terminal N−1.
type Engine[C any] struct {
	steps []Step[C]
	index map[string]int
}

// NewEngine valida la definición: al menos un paso e IDs únicos.
func NewEngine[C any](steps ...Step[C]) (*Engine[C], error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: el flujo necesita al menos un paso", domain.ErrPrecondition)
	}
	idx := make(map[string]int, len(steps))
	for i, s := range steps {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: paso %d sin ID", domain.ErrPrecondition, i)
		}
		if _, dup := idx[s.ID]; dup {
			return nil, fmt.Errorf("%w: paso duplicado %q", domain.ErrPrecondition, s.ID)
		}
		idx[s.ID] = i
	}
	return &Engine[C]{steps: steps, index: idx}, nil
}

// Len número de pasos.
func (e *Engine[C]) Len() int { return len(e.steps) }

// Terminal índice del paso final (revisión / finalizar).
func (e *Engine[C]) Terminal() int { return len(e.steps) - 1 }

// Steps copia de las definiciones.
func (e *Engine[C]) Steps() []Step[C] {
	out := make([]Step[C], len(e.steps))
	copy(out, e.steps)
	return out
}

// Index posición de un paso por ID.
func (e *Engine[C]) Index(id string) (int, bool) {
	i, ok := e.index[id]
	return i, ok
}

// CanAdvanceTo true si todo paso j < k requerido está completo. Se evalúa siempre en vivo.
func (e *Engine[C]) CanAdvanceTo(c C, k int) bool {
	if k < 0 || k >= len(e.steps) {
		return false
	}
	for j := 0; j < k; j++ {
		if e.steps[j].IsRequired(c) && !e.steps[j].IsComplete(c) {
			return false
		}
	}
	return true
}

// Blocking pasos requeridos incompletos antes de k.
func (e *Engine[C]) Blocking(c C, k int) []Step[C] {
	if k > len(e.steps) {
		k = len(e.steps)
	}
	var out []Step[C]
	for j := 0; j < k; j++ {
		if e.steps[j].IsRequired(c) && !e.steps[j].IsComplete(c) {
			out = append(out, e.steps[j])
		}
	}
	return out
}

// Incomplete todos los pasos requeridos incompletos del flujo (incluido el terminal).
func (e *Engine[C]) Incomplete(c C) []Step[C] {
	return e.Blocking(c, len(e.steps))
}

// Jump navegación directa a k (no solo al siguiente) con la misma regla que CanAdvanceTo.
func (e *Engine[C]) Jump(c C, k int) (int, error) {
	if k < 0 || k >= len(e.steps) {
		return 0, domain.NewValidationError("step", fmt.Sprintf("paso %d fuera de rango (0..%d)", k, len(e.steps)-1))
	}
	blocking := e.Blocking(c, k)
	if len(blocking) == 0 {
		return k, nil
	}
	ve := &domain.ValidationError{}
	for _, s := range blocking {
		ve.Add(s.ID, "paso requerido incompleto: "+s.Title)
	}
	return 0, ve
}

// Next avanza un paso desde current.
func (e *Engine[C]) Next(c C, current int) (int, error) {
	if current >= e.Terminal() {
		return e.Terminal(), nil
	}
	return e.Jump(c, current+1)
}

// Back retrocede un paso; retroceder nunca se bloquea.
func (e *Engine[C]) Back(current int) int {
	if current <= 0 {
		return 0
	}
	if current > e.Terminal() {
		return e.Terminal()
	}
	return current - 1
}

// Statuses estado de cada paso para la configuración y la posición actual.
func (e *Engine[C]) Statuses(c C, current int) []Status {
	out := make([]Status, len(e.steps))
	for i, s := range e.steps {
		out[i] = Status{
			Index:     i,
			ID:        s.ID,
			Title:     s.Title,
			Required:  s.IsRequired(c),
			Complete:  s.IsComplete(c),
			Reachable: e.CanAdvanceTo(c, i),
			Current:   i == current,
		}
	}
	return out
}
