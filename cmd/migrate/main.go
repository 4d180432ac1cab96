// migrate aplica el esquema embebido sobre la base configurada (DATABASE_URL o DB_*).
//
// Uso: go run ./cmd/migrate [up|down|steps N|version|force V]
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/migration"
	"github.com/jhoicas/seller-catalog-api/pkg/config"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: migrate [up|down|steps N|version|force V]")
	}
	flag.Parse()
	args := flag.Args()
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	m, err := migration.New(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		var n int
		n, err = intArg(args)
		if err == nil {
			err = m.Steps(n)
		}
	case "force":
		var v int
		v, err = intArg(args)
		if err == nil {
			err = m.Force(v)
		}
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión actual")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migración fallida")
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("falta el argumento numérico")
	}
	return strconv.Atoi(args[1])
}
