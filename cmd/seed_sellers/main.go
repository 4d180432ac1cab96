// seed_sellers carga vendedores desde un CSV "id;nombre" (una fila por vendedor).
// El catálogo solo lee vendedores; esta herramienta es la vía para darlos de alta.
//
// Uso: go run ./cmd/seed_sellers [-latin1] sellers.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/seller-catalog-api/internal/domain/entity"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/postgres"
	"github.com/jhoicas/seller-catalog-api/pkg/config"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1 (exportes de Excel)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_sellers [-latin1] sellers.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	sellers, err := parseSellers(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repo := postgres.NewSellerRepository(pool)
	for _, s := range sellers {
		if err := repo.Upsert(ctx, s); err != nil {
			log.Fatal().Err(err).Str("seller_id", s.ID).Msg("guardar vendedor")
		}
	}
	log.Info().Int("sellers", len(sellers)).Msg("vendedores cargados")
}

// parseSellers lee filas "id;nombre". Ignora líneas vacías y una cabecera que empiece por "id".
func parseSellers(r io.Reader) ([]*entity.Seller, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []*entity.Seller
	seen := make(map[string]bool)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan 2 columnas", line)
		}
		id, name := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if line == 1 && strings.EqualFold(id, "id") {
			continue
		}
		if id == "" || name == "" {
			return nil, fmt.Errorf("línea %d: id y nombre son obligatorios", line)
		}
		if seen[id] {
			return nil, fmt.Errorf("línea %d: vendedor %s repetido", line, id)
		}
		seen[id] = true
		out = append(out, &entity.Seller{ID: id, Name: name, CreatedAt: time.Now().UTC()})
	}
	return out, nil
}
