package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// LetterRepo letras y distribuciones.
type LetterRepo struct {
	q Querier
}

// NewLetterRepository construye el repositorio sobre un pool o una transacción.
func NewLetterRepository(q Querier) *LetterRepo {
	return &LetterRepo{q: q}
}

// List todas las letras por fecha de pago.
func (r *LetterRepo) List(ctx context.Context) ([]entity.Letter, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, amount, payment_date, distribution_id, COALESCE(company_id, ''), status
		FROM letters ORDER BY payment_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	defer rows.Close()

	var out []entity.Letter
	for rows.Next() {
		var l entity.Letter
		var status string
		if err := rows.Scan(&l.ID, &l.Amount, &l.PaymentDate, &l.DistributionID, &l.CompanyID, &status); err != nil {
			return nil, fmt.Errorf("scan letter: %w", err)
		}
		l.Status = entity.LetterStatus(status)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	return out, nil
}

// Insert crea una letra pendiente a partir del borrador.
func (r *LetterRepo) Insert(ctx context.Context, d entity.LetterDraft) (entity.Letter, error) {
	l := entity.Letter{
		ID:             uuid.NewString(),
		Amount:         d.Amount,
		PaymentDate:    d.PaymentDate,
		DistributionID: d.DistributionID,
		CompanyID:      d.CompanyID,
		Status:         entity.LetterStatusPending,
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO letters (id, amount, payment_date, distribution_id, company_id, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		l.ID, l.Amount, l.PaymentDate, l.DistributionID, l.CompanyID, string(l.Status))
	if err != nil {
		return entity.Letter{}, fmt.Errorf("insert letter: %w", err)
	}
	return l, nil
}

// MarkAssigned marca la distribución como cubierta por letras.
func (r *LetterRepo) MarkAssigned(ctx context.Context, distributionID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE distributions SET assigned = TRUE WHERE id = $1`, distributionID); err != nil {
		return fmt.Errorf("assign distribution: %w", err)
	}
	return nil
}

// Unassigned distribuciones sin letras asignadas.
func (r *LetterRepo) Unassigned(ctx context.Context) ([]entity.Distribution, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, COALESCE(order_id::text, ''), beneficiary, amount, date, assigned
		FROM distributions WHERE NOT assigned ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	defer rows.Close()

	var out []entity.Distribution
	for rows.Next() {
		var d entity.Distribution
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Beneficiary, &d.Amount, &d.Date, &d.Assigned); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	return out, nil
}
