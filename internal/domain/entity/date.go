package entity

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formato de fecha de calendario usado en formularios y en la API remota.
const DateLayout = "2006-01-02"

// ParseDate interpreta "YYYY-MM-DD" o un timestamp RFC3339 y conserva solo el día calendario
// tal como viene escrito (sin convertir de zona horaria).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(DateLayout) {
		return time.Time{}, fmt.Errorf("fecha inválida: %q", s)
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida: %q", s)
	}
	return t, nil
}

// DateOnly normaliza t al día calendario (00:00 UTC).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey clave YYYY-MM-DD del día calendario de t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
