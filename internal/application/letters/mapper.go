package letters

import (
	"sort"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func (uc *LetterUseCase) toLetters(in []entity.Letter) []dto.LetterResponse {
	today := uc.now()
	out := make([]dto.LetterResponse, 0, len(in))
	for _, l := range in {
		out = append(out, dto.LetterResponse{
			ID:             l.ID,
			Amount:         l.Amount,
			PaymentDate:    entity.DateKey(l.PaymentDate),
			DistributionID: l.DistributionID,
			CompanyID:      l.CompanyID,
			Status:         string(l.EffectiveStatus(today)),
		})
	}
	return out
}

func toDistributions(in []entity.Distribution) []dto.DistributionResponse {
	out := make([]dto.DistributionResponse, 0, len(in))
	for _, d := range in {
		out = append(out, dto.DistributionResponse{
			ID:          d.ID,
			OrderID:     d.OrderID,
			Beneficiary: d.Beneficiary,
			Amount:      d.Amount,
			Date:        entity.DateKey(d.Date),
			Assigned:    d.Assigned,
		})
	}
	return out
}

// sortedLetters copia ordenada por fecha de pago (estable para el mismo día).
func sortedLetters(in []entity.Letter) []entity.Letter {
	out := append([]entity.Letter(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate) })
	return out
}

func lettersFromDrafts(drafts []entity.LetterDraft) []entity.Letter {
	out := make([]entity.Letter, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, entity.Letter{
			Amount:         d.Amount,
			PaymentDate:    d.PaymentDate,
			DistributionID: d.DistributionID,
			CompanyID:      d.CompanyID,
			Status:         entity.LetterStatusPending,
		})
	}
	return out
}

// markAssigned quita de la lista de pendientes la distribución ya cubierta por letras.
func markAssigned(in []entity.Distribution, id string) []entity.Distribution {
	out := in[:0:0]
	for _, d := range in {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}
