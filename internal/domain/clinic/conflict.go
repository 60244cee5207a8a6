package clinic

import "time"

// Overlaps reporta si dos intervalos [start, start+dur) se solapan.
func Overlaps(aStart time.Time, aMinutes int, bStart time.Time, bMinutes int) bool {
	aEnd := aStart.Add(time.Duration(aMinutes) * time.Minute)
	bEnd := bStart.Add(time.Duration(bMinutes) * time.Minute)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ConflictsWith aplica el invariante del profesional: dos turnos del mismo
// practitioner, el mismo día calendario, con status bloqueante, no pueden
// solaparse. La evaluación debe correr dentro del punto de serialización
// del store (lock o transacción), junto con el insert.
func ConflictsWith(existing, candidate Appointment) bool {
	if existing.PractitionerID != candidate.PractitionerID {
		return false
	}
	if !existing.Status.Blocks() || !candidate.Status.Blocks() {
		return false
	}
	ey, em, ed := existing.Start.Date()
	cy, cm, cd := candidate.Start.Date()
	if ey != cy || em != cm || ed != cd {
		return false
	}
	return Overlaps(existing.Start, existing.DurationMinutes, candidate.Start, candidate.DurationMinutes)
}
