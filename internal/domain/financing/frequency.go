package financing

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain"
)

// Frequency periodicidad de las cuotas.
type Frequency string

// Periodicidades soportadas.
const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly" // quincenal
	Monthly  Frequency = "monthly"
)

// ParseFrequency acepta los valores canónicos y sus equivalentes en español.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "diario", "diaria":
		return Daily, nil
	case "weekly", "semanal":
		return Weekly, nil
	case "biweekly", "quincenal":
		return Biweekly, nil
	case "monthly", "mensual":
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: periodicidad desconocida %q", domain.ErrInvalidInput, s)
}

// Valid indica si la periodicidad es una de las soportadas.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Biweekly, Monthly:
		return true
	}
	return false
}

// PeriodsPerYear número de periodos por año usado para convertir una tasa anual en periódica.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case Daily:
		return 365
	case Weekly:
		return 52
	case Biweekly:
		return 24
	case Monthly:
		return 12
	}
	return 0
}

// DueDate fecha de vencimiento de la cuota i (1..n) contada desde start.
func (f Frequency) DueDate(start time.Time, i int) time.Time {
	switch f {
	case Daily:
		return start.AddDate(0, 0, i)
	case Weekly:
		return start.AddDate(0, 0, 7*i)
	case Biweekly:
		return start.AddDate(0, 0, 15*i)
	default:
		return addMonths(start, i)
	}
}

// addMonths suma meses sin desbordar al mes siguiente: 31-ene + 1 mes = 28/29-feb.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
