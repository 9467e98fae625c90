// Seed carga el dataset conocido (sedes, proveedores, usuarios y productos con lotes) en el almacén
// configurado por STORE_DRIVER y opcionalmente importa productos desde un CSV.
//
// Uso: go run ./cmd/seed [-reset] [-csv productos.csv] [-latin1]
//
// Sin -reset solo siembra si el almacén está vacío. El CSV se agrega al catálogo; se omiten los
// productos cuyo id ya existe o cuyo proveedor no está registrado.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/clinic-inventory-api/internal/application/auth"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/seed"
	"github.com/jhoicas/clinic-inventory-api/pkg/config"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

func main() {
	reset := flag.Bool("reset", false, "reemplaza todas las colecciones con el dataset semilla")
	csvPath := flag.String("csv", "", "CSV de productos a importar")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := context.Background()

	var store repository.CollectionStore
	if cfg.Store.Driver == "postgres" {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store = postgres.NewDocumentStore(pool, postgres.NewTxRunner(pool))
	} else {
		log.Warn().Msg("STORE_DRIVER=memory: los datos no sobreviven a este proceso")
		store = memory.NewDocumentStore()
	}

	today := entity.Today()
	dataset, err := seed.Dataset(today, auth.NewBcryptAuthenticator(0))
	if err != nil {
		log.Fatal().Err(err).Msg("dataset semilla")
	}
	cat := catalog.New(store, func() (catalog.Snapshot, error) { return dataset.Clone(), nil }, log)
	if err := cat.Load(ctx, true); err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}

	if *reset {
		if err := replaceAll(ctx, cat, dataset); err != nil {
			log.Fatal().Err(err).Msg("reemplazar colecciones")
		}
		log.Info().Msg("colecciones reemplazadas con el dataset semilla")
	}

	if *csvPath != "" {
		added, skipped, err := importCSV(ctx, cat, *csvPath, *latin1, today)
		if err != nil {
			log.Fatal().Err(err).Str("file", *csvPath).Msg("importar CSV")
		}
		log.Info().Int("added", added).Int("skipped", skipped).Msg("productos importados")
	}

	if err := cat.Flush(ctx); err != nil {
		log.Fatal().Err(err).Msg("guardar catálogo")
	}
	snap := cat.Snapshot()
	log.Info().
		Int("branches", len(snap.Branches)).
		Int("suppliers", len(snap.Suppliers)).
		Int("users", len(snap.Users)).
		Int("products", len(snap.Products)).
		Msg("seed completado")
}

func replaceAll(ctx context.Context, cat *catalog.Catalog, dataset catalog.Snapshot) error {
	steps := []struct {
		collection string
		apply      func(s *catalog.Snapshot)
	}{
		{repository.CollectionBranches, func(s *catalog.Snapshot) { s.Branches = dataset.Branches }},
		{repository.CollectionSuppliers, func(s *catalog.Snapshot) { s.Suppliers = dataset.Suppliers }},
		{repository.CollectionUsers, func(s *catalog.Snapshot) { s.Users = dataset.Users }},
		{repository.CollectionProducts, func(s *catalog.Snapshot) { s.Products = dataset.Products }},
	}
	for _, st := range steps {
		err := cat.Mutate(ctx, st.collection, func(s *catalog.Snapshot) error {
			st.apply(s)
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s: %w", st.collection, err)
		}
	}
	return nil
}

func importCSV(ctx context.Context, cat *catalog.Catalog, path string, latin1 bool, today entity.Date) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	products, err := seed.ImportProductsCSV(f, latin1, today)
	if err != nil {
		return 0, 0, err
	}

	var added, skipped int
	err = cat.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		for _, p := range products {
			if s.ProductIndex(p.ID) >= 0 {
				skipped++
				continue
			}
			if _, ok := s.Supplier(p.SupplierID); !ok || !branchesKnown(*s, p) {
				skipped++
				continue
			}
			s.Products = append(s.Products, p)
			added++
		}
		return nil
	})
	return added, skipped, err
}

func branchesKnown(s catalog.Snapshot, p entity.Product) bool {
	for _, sl := range p.StockLevels {
		if _, ok := s.Branch(sl.BranchID); !ok {
			return false
		}
	}
	return true
}
