package service

import "time"

const layoutPeriodo = "2006-01"

// PeriodoValido reports whether s is a YYYY-MM calendar month.
func PeriodoValido(s string) bool {
	if len(s) != len(layoutPeriodo) {
		return false
	}
	_, err := time.Parse(layoutPeriodo, s)
	return err == nil
}

// PeriodoDe returns the YYYY-MM bucket of t in its own location.
func PeriodoDe(t time.Time) string { return t.Format(layoutPeriodo) }

// InicioPeriodo returns the first instant of the month in UTC. s must be valid.
func InicioPeriodo(s string) time.Time {
	t, _ := time.Parse(layoutPeriodo, s)
	return t
}
