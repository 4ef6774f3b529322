package xlsx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Pedidos-api/internal/domain/calendar"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/xlsx"
)

func TestLetters_HojasYValores(t *testing.T) {
	letters := []entity.Letter{
		{
			ID:             "l-1",
			Amount:         decimal.RequireFromString("1500.50"),
			PaymentDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			DistributionID: "d-1",
			Status:         entity.LetterStatusOverdue,
		},
	}
	month := []calendar.DayView{
		{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("1500.50"), LetterCount: 1, Class: calendar.ClassUnderCap},
		{Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), Weekend: true, Class: calendar.ClassEmpty},
	}

	b, err := xlsx.NewLettersExporter().Letters(letters, month)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Letras", "Calendario"}, f.GetSheetList())

	rows, err := f.GetRows("Letras")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fecha de pago", rows[0][1])
	assert.Equal(t, "l-1", rows[1][0])
	assert.Equal(t, "2025-03-10", rows[1][1])
	assert.Equal(t, "Vencida", rows[1][5])

	cal, err := f.GetRows("Calendario")
	require.NoError(t, err)
	require.Len(t, cal, 3)
	assert.Equal(t, "Bajo el tope", cal[1][3])
	assert.Equal(t, "Sí", cal[2][4])
}

func TestLetters_SinLetras(t *testing.T) {
	b, err := xlsx.NewLettersExporter().Letters(nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Letras")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "solo la cabecera")
}
