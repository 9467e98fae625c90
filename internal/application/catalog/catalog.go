package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

// SeedFunc provee el dataset conocido usado cuando el almacén falla o está vacío.
type SeedFunc func() (Snapshot, error)

// Catalog agregado versionado que posee el estado compartido (productos, sedes, proveedores, usuarios).
//
// Las mutaciones se aplican sobre una copia y se persisten con ReplaceAll usando la versión
// conocida de la colección. Un conflicto de versión rechaza la mutación y recarga la colección
// desde el almacén. Cualquier otro fallo al guardar deja el estado en memoria como fuente de
// verdad, marca la colección como pendiente y se registra en el log; Flush reintenta.
type Catalog struct {
	store repository.CollectionStore
	seed  SeedFunc
	log   *logger.Logger

	mu       sync.RWMutex
	state    Snapshot
	versions map[string]int64
	dirty    map[string]bool
}

// New construye el catálogo vacío; llamar Load antes de usarlo.
func New(store repository.CollectionStore, seed SeedFunc, log *logger.Logger) *Catalog {
	return &Catalog{
		store:    store,
		seed:     seed,
		log:      log,
		versions: make(map[string]int64),
		dirty:    make(map[string]bool),
	}
}

// Load lee todas las colecciones. Si el almacén falla se usa el dataset semilla (queda pendiente de
// guardar). Si seedOnEmpty y el almacén no tiene nada, se carga la semilla y se persiste.
func (c *Catalog) Load(ctx context.Context, seedOnEmpty bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next Snapshot
	versions := make(map[string]int64, len(collections))
	empty := true
	for _, col := range collections {
		docs, version, err := c.store.LoadAll(ctx, col)
		if err == nil {
			err = decodeCollection(&next, col, docs)
		}
		if err != nil {
			c.log.Warn().Err(err).Str("collection", col).Msg("catálogo: fallo al cargar, usando datos semilla")
			return c.fallbackToSeed()
		}
		versions[col] = version
		if version > 0 || len(docs) > 0 {
			empty = false
		}
	}

	c.state = next
	c.versions = versions
	c.dirty = make(map[string]bool)

	if empty && seedOnEmpty {
		seed, err := c.seed()
		if err != nil {
			return fmt.Errorf("catálogo: dataset semilla: %w", err)
		}
		c.state = seed
		for _, col := range collections {
			c.persistLocked(ctx, col)
		}
		c.log.Info().Int("products", len(seed.Products)).Msg("catálogo: almacén vacío, semilla cargada")
	}
	return nil
}

func (c *Catalog) fallbackToSeed() error {
	seed, err := c.seed()
	if err != nil {
		return fmt.Errorf("%w: almacén y semilla no disponibles: %v", domain.ErrPersistence, err)
	}
	c.state = seed
	c.versions = make(map[string]int64)
	c.dirty = make(map[string]bool)
	for _, col := range collections {
		c.dirty[col] = true
	}
	return nil
}

// Snapshot devuelve una copia profunda del estado actual.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Version token de versión conocido para la colección.
func (c *Catalog) Version(collection string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[collection]
}

// Dirty indica si la colección tiene cambios en memoria sin persistir.
func (c *Catalog) Dirty(collection string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty[collection]
}

// Mutate aplica fn sobre una copia del estado y persiste la colección indicada.
// Si fn falla el estado no cambia. Las mutaciones se serializan.
func (c *Catalog) Mutate(ctx context.Context, collection string, fn func(s *Snapshot) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	prev := c.state
	c.state = next
	if err := c.persistLocked(ctx, collection); err != nil {
		c.state = prev
		if errors.Is(err, domain.ErrVersionConflict) {
			c.reloadLocked(ctx, collection)
		}
		return err
	}
	return nil
}

// Flush reintenta guardar las colecciones pendientes.
func (c *Catalog) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, col := range collections {
		if !c.dirty[col] {
			continue
		}
		if err := c.persistLocked(ctx, col); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				c.reloadLocked(ctx, col)
			}
			errs = append(errs, err)
			continue
		}
		if c.dirty[col] {
			errs = append(errs, fmt.Errorf("%w: %s sigue pendiente", domain.ErrPersistence, col))
		}
	}
	return errors.Join(errs...)
}

// persistLocked guarda la colección. Solo devuelve error para conflictos de versión o datos
// inválidos; los fallos del almacén se registran y dejan la colección como pendiente.
func (c *Catalog) persistLocked(ctx context.Context, collection string) error {
	docs, err := encodeCollection(c.state, collection)
	if err != nil {
		return err
	}
	version, err := c.store.ReplaceAll(ctx, collection, docs, c.versions[collection])
	switch {
	case err == nil:
		c.versions[collection] = version
		delete(c.dirty, collection)
		return nil
	case errors.Is(err, domain.ErrVersionConflict), errors.Is(err, domain.ErrDuplicate):
		return err
	default:
		c.dirty[collection] = true
		c.log.Error().Err(err).Str("collection", collection).Msg("catálogo: no se pudo guardar, se mantiene en memoria")
		return nil
	}
}

func (c *Catalog) reloadLocked(ctx context.Context, collection string) {
	next := c.state
	docs, version, err := c.store.LoadAll(ctx, collection)
	if err == nil {
		err = decodeCollection(&next, collection, docs)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("collection", collection).Msg("catálogo: no se pudo recargar tras conflicto")
		return
	}
	c.state = next
	c.versions[collection] = version
	delete(c.dirty, collection)
}
