package ptrx

import "time"

// String retorna un puntero al string dado
func String(s string) *string {
	return &s
}

// Int retorna un puntero al int dado
func Int(i int) *int {
	return &i
}

// Bool retorna un puntero al bool dado
func Bool(b bool) *bool {
	return &b
}

// Time retorna un puntero al time.Time dado
func Time(t time.Time) *time.Time {
	return &t
}

// StringValue retorna el valor del puntero o "" si es nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
