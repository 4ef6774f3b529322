// Package system contiene el lado de lectura de administración: visor de logs y respaldos.
// No guarda estado por sesión.
package system

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
	"github.com/jhoicas/Pedidos-api/pkg/retry"
)

// SystemUseCase consultas de logs y respaldos.
type SystemUseCase struct {
	gw   ports.RemoteGateway
	load retry.Policy
	log  *logger.Logger
}

// NewSystemUseCase construye el caso de uso.
func NewSystemUseCase(gw ports.RemoteGateway, load retry.Policy, log *logger.Logger) *SystemUseCase {
	return &SystemUseCase{gw: gw, load: load, log: log.Component("system")}
}

// Logs filtra por nivel, usuario, texto y rango de fechas; ordena del más reciente al más antiguo
// y pagina.
func (uc *SystemUseCase) Logs(ctx context.Context, f dto.LogFilter) (*dto.LogListResponse, error) {
	f.DefaultPage()
	from, to, err := parseRange(f.From, f.To)
	if err != nil {
		return nil, err
	}

	var entries []entity.LogEntry
	err = uc.load.Do(ctx, func(ctx context.Context) error {
		var err error
		entries, err = uc.gw.ListLogs(ctx)
		return err
	}, uc.onRetry("logs"))
	if err != nil {
		return nil, fmt.Errorf("system: logs: %w", err)
	}

	level := strings.ToLower(strings.TrimSpace(f.Level))
	user := strings.ToLower(strings.TrimSpace(f.User))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	matched := make([]entity.LogEntry, 0, len(entries))
	for _, e := range entries {
		if level != "" && strings.ToLower(e.Level) != level {
			continue
		}
		if user != "" && !strings.Contains(strings.ToLower(e.User), user) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(e.Message), query) &&
			!strings.Contains(strings.ToLower(e.Action), query) {
			continue
		}
		if !from.IsZero() && entity.DateOnly(e.Timestamp).Before(from) {
			continue
		}
		if !to.IsZero() && entity.DateOnly(e.Timestamp).After(to) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })

	out := &dto.LogListResponse{
		Items: []dto.LogEntryResponse{},
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: len(matched)},
	}
	if f.Offset >= len(matched) {
		return out, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	for _, e := range matched[f.Offset:end] {
		out.Items = append(out.Items, dto.LogEntryResponse{
			Timestamp: e.Timestamp,
			Level:     e.Level,
			User:      e.User,
			Action:    e.Action,
			Message:   e.Message,
		})
	}
	return out, nil
}

// Backups listado de respaldos, el más reciente primero.
func (uc *SystemUseCase) Backups(ctx context.Context) (*dto.BackupListResponse, error) {
	var backups []entity.Backup
	err := uc.load.Do(ctx, func(ctx context.Context) error {
		var err error
		backups, err = uc.gw.ListBackups(ctx)
		return err
	}, uc.onRetry("backups"))
	if err != nil {
		return nil, fmt.Errorf("system: respaldos: %w", err)
	}
	sort.SliceStable(backups, func(i, j int) bool { return backups[i].CreatedAt.After(backups[j].CreatedAt) })

	out := &dto.BackupListResponse{Items: make([]dto.BackupResponse, 0, len(backups))}
	for _, b := range backups {
		out.Items = append(out.Items, dto.BackupResponse{Name: b.Name, SizeBytes: b.SizeBytes, CreatedAt: b.CreatedAt, Status: b.Status})
	}
	return out, nil
}

func (uc *SystemUseCase) onRetry(what string) func(int, error) {
	return func(attempt int, err error) {
		uc.log.Warn().Err(err).Int("attempt", attempt).Str("list", what).Msg("reintentando lectura")
	}
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	fields := map[string]string{}
	var f, t time.Time
	var err error
	if strings.TrimSpace(from) != "" {
		if f, err = entity.ParseDate(from); err != nil {
			fields["from"] = "La fecha no es válida"
		}
	}
	if strings.TrimSpace(to) != "" {
		if t, err = entity.ParseDate(to); err != nil {
			fields["to"] = "La fecha no es válida"
		}
	}
	if err := domain.NewValidationError(fields); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return f, t, nil
}
