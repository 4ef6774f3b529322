// Package xlsx exporta el cronograma de letras a Excel.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain/calendar"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

const (
	sheetLetters  = "Letras"
	sheetCalendar = "Calendario"

	// numFmtMoney formato incorporado "#,##0.00".
	numFmtMoney = 4
)

var _ ports.LetterExporter = (*LettersExporter)(nil)

var classLabels = map[calendar.DayClass]string{
	calendar.ClassHoliday:  "Feriado",
	calendar.ClassOverCap:  "Sobre el tope",
	calendar.ClassNearCap:  "Cerca del tope",
	calendar.ClassUnderCap: "Bajo el tope",
	calendar.ClassEmpty:    "Sin letras",
	calendar.ClassSelected: "Seleccionado",
}

var statusLabels = map[entity.LetterStatus]string{
	entity.LetterStatusPending: "Pendiente",
	entity.LetterStatusPaid:    "Pagada",
	entity.LetterStatusOverdue: "Vencida",
}

// LettersExporter implementa ports.LetterExporter con excelize.
type LettersExporter struct{}

// NewLettersExporter construye el exportador.
func NewLettersExporter() *LettersExporter { return &LettersExporter{} }

// Letters genera un libro con la hoja de letras y la del mes del calendario.
func (e *LettersExporter) Letters(letters []entity.Letter, month []calendar.DayView) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetLetters); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(sheetCalendar); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeLetters(f, letters, header, amount); err != nil {
		return nil, err
	}
	if err := writeCalendar(f, month, header, amount); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// ── Hojas ─────────────────────────────────────────────────────────────────────

func writeLetters(f *excelize.File, letters []entity.Letter, header, amount int) error {
	cols := []string{"ID", "Fecha de pago", "Monto", "Distribución", "Empresa", "Estado"}
	if err := writeRow(f, sheetLetters, 1, toAny(cols)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetLetters, "A1", "F1", header); err != nil {
		return fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	for i, l := range letters {
		status := statusLabels[l.Status]
		if status == "" {
			status = string(l.Status)
		}
		values := []any{
			l.ID,
			entity.DateKey(l.PaymentDate),
			l.Amount.Round(2).InexactFloat64(),
			l.DistributionID,
			l.CompanyID,
			status,
		}
		if err := writeRow(f, sheetLetters, i+2, values); err != nil {
			return err
		}
	}
	if len(letters) > 0 {
		last := fmt.Sprintf("C%d", len(letters)+1)
		if err := f.SetCellStyle(sheetLetters, "C2", last, amount); err != nil {
			return fmt.Errorf("xlsx: estilo montos: %w", err)
		}
	}
	return f.SetColWidth(sheetLetters, "A", "F", 18)
}

func writeCalendar(f *excelize.File, month []calendar.DayView, header, amount int) error {
	cols := []string{"Fecha", "Total", "Letras", "Clasificación", "Fin de semana", "Feriado"}
	if err := writeRow(f, sheetCalendar, 1, toAny(cols)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetCalendar, "A1", "F1", header); err != nil {
		return fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	for i, d := range month {
		values := []any{
			entity.DateKey(d.Date),
			d.Total.Round(2).InexactFloat64(),
			d.LetterCount,
			classLabels[d.Class],
			yesNo(d.Weekend),
			yesNo(d.Holiday),
		}
		if err := writeRow(f, sheetCalendar, i+2, values); err != nil {
			return err
		}
	}
	if len(month) > 0 {
		last := fmt.Sprintf("B%d", len(month)+1)
		if err := f.SetCellStyle(sheetCalendar, "B2", last, amount); err != nil {
			return fmt.Errorf("xlsx: estilo montos: %w", err)
		}
	}
	return f.SetColWidth(sheetCalendar, "A", "F", 16)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx: escribir %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
