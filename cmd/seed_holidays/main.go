// seed_holidays convierte el listado oficial de feriados (CSV fecha;nombre, típicamente exportado
// en ISO-8859-1) en la variable CALENDAR_HOLIDAYS para config.env.
//
// Uso: go run ./cmd/seed_holidays [ruta/feriados.csv] [año]
// Por defecto lee feriados.csv del directorio actual y no filtra por año.
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

type holiday struct {
	date string
	name string
}

func main() {
	csvPath := "feriados.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	year := 0
	if len(os.Args) > 2 {
		y, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Año inválido: %v\n", err)
			os.Exit(1)
		}
		year = y
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	holidays, skipped, err := parse(decode(raw), year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	dates := make([]string, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.date)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, h := range holidays {
		fmt.Fprintf(w, "# %s %s\n", h.date, h.name)
	}
	fmt.Fprintf(w, "CALENDAR_HOLIDAYS=%s\n", strings.Join(dates, ","))
	fmt.Fprintf(os.Stderr, "%d feriados, %d filas descartadas\n", len(holidays), skipped)
}

// decode devuelve un lector UTF-8; si el archivo no es UTF-8 válido se asume ISO-8859-1.
func decode(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parse lee filas fecha;nombre (también acepta coma). Fechas inválidas y cabeceras se descartan.
// La salida queda ordenada y sin duplicados.
func parse(r io.Reader, year int) ([]holiday, int, error) {
	br := bufio.NewReader(r)
	first, _ := br.Peek(256)
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		cr.Comma = ';'
	}

	seen := make(map[string]holiday)
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		if len(rec) == 0 {
			continue
		}
		d, err := entity.ParseDate(rec[0])
		if err != nil {
			skipped++
			continue
		}
		if year != 0 && d.Year() != year {
			continue
		}
		name := ""
		if len(rec) > 1 {
			name = strings.TrimSpace(rec[1])
		}
		seen[entity.DateKey(d)] = holiday{date: entity.DateKey(d), name: name}
	}

	out := make([]holiday, 0, len(seen))
	for _, h := range seen {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].date < out[j].date })
	return out, skipped, nil
}
