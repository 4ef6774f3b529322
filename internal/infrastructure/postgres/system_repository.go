package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// maxLogRows tope de registros leídos para el visor de logs.
const maxLogRows = 5000

// SystemRepo auditoría y respaldos.
type SystemRepo struct {
	q Querier
}

// NewSystemRepository construye el repositorio.
func NewSystemRepository(q Querier) *SystemRepo {
	return &SystemRepo{q: q}
}

// Logs registros de auditoría más recientes.
func (r *SystemRepo) Logs(ctx context.Context) ([]entity.LogEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT created_at, level, COALESCE(username, ''), COALESCE(action, ''), COALESCE(message, '')
		FROM audit_logs ORDER BY created_at DESC LIMIT $1`, maxLogRows)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var out []entity.LogEntry
	for rows.Next() {
		var e entity.LogEntry
		if err := rows.Scan(&e.Timestamp, &e.Level, &e.User, &e.Action, &e.Message); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		e.Level = strings.ToLower(e.Level)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return out, nil
}

// Backups respaldos registrados.
func (r *SystemRepo) Backups(ctx context.Context) ([]entity.Backup, error) {
	rows, err := r.q.Query(ctx, `SELECT name, size_bytes, created_at, status FROM backups ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var out []entity.Backup
	for rows.Next() {
		var b entity.Backup
		if err := rows.Scan(&b.Name, &b.SizeBytes, &b.CreatedAt, &b.Status); err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return out, nil
}
