package entity

import "time"

// LogEntry registro de auditoría en forma canónica (normalizado en el borde remoto).
type LogEntry struct {
	Timestamp time.Time
	Level     string
	User      string
	Action    string
	Message   string
}

// Backup copia de seguridad reportada por el servidor.
type Backup struct {
	Name      string
	SizeBytes int64
	CreatedAt time.Time
	Status    string
}
