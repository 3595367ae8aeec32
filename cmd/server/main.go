package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	httpadapter "emberdelve/internal/adapter/http"
	gormrepo "emberdelve/internal/adapter/repo/gorm"
	"emberdelve/internal/adapter/repo/memory"
	"emberdelve/internal/adapter/templates/static"
	"emberdelve/internal/adapter/worldgen/simple"
	"emberdelve/internal/app/game"
	"emberdelve/internal/app/ports"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
)

type config struct {
	Addr          string `env:"EMBERDELVE_ADDR" envDefault:":8080"`
	DBDSN         string `env:"EMBERDELVE_DB_DSN"`
	MigrationsDir string `env:"EMBERDELVE_MIGRATIONS_DIR" envDefault:"./migrations"`
	Seed          int64  `env:"EMBERDELVE_SEED"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	templates, err := static.Load()
	if err != nil {
		log.Fatalf("load templates: %v", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	saveRepo, eventRepo, txManager := buildRepos(cfg)

	uc := &game.UseCase{
		Templates: templates,
		MapGen:    simple.NewGenerator(rng),
		Spawner:   simple.NewSpawner(templates, rng),
		Rand:      rng,
		SaveRepo:  saveRepo,
		EventRepo: eventRepo,
		Tx:        txManager,
		Logger:    log.Default(),
		Now:       time.Now,
	}

	h := httpadapter.Handler{GameUC: uc}
	s := server.Default(server.WithHostPorts(cfg.Addr))
	s.Use(httpadapter.CORSMiddleware())
	h.RegisterRoutes(s)

	log.Printf("emberdelve server listening on %s (seed %d)", cfg.Addr, seed)
	s.Spin()
}

// buildRepos wires postgres persistence when a DSN is configured and falls
// back to in-memory stores otherwise. The in-memory mode loses saves on
// restart; it exists for local play and tests.
func buildRepos(cfg config) (ports.SaveRepository, ports.EventRepository, ports.TxManager) {
	if cfg.DBDSN == "" {
		log.Println("EMBERDELVE_DB_DSN unset, using in-memory persistence")
		store := memory.NewStore()
		return memory.NewSaveRepo(store), memory.NewEventRepo(store), memory.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewSaveRepo(db), gormrepo.NewEventRepo(db), gormrepo.NewTxManager(db)
}
