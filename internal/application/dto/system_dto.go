package dto

import "time"

// LogFilter filtros del visor de logs.
type LogFilter struct {
	Level string `query:"level"`
	User  string `query:"user"`
	Query string `query:"q"`
	From  string `query:"from"` // YYYY-MM-DD inclusive
	To    string `query:"to"`   // YYYY-MM-DD inclusive
	PageRequest
}

// LogEntryResponse registro de log normalizado.
type LogEntryResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
}

// LogListResponse página de logs.
type LogListResponse struct {
	Items []LogEntryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BackupResponse respaldo del sistema.
type BackupResponse struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// BackupListResponse listado de respaldos.
type BackupListResponse struct {
	Items []BackupResponse `json:"items"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
