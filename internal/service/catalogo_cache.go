package service

import (
	"context"
	"fmt"
	"time"

	"clinica/internal/model"
	"clinica/internal/repository"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CatalogoCache resolves areas, modules and professionals by id through a
// short-TTL in-process cache so a statement build does not reload the whole
// catalog. Catalog writers must call Invalidar* after changing an entry.
type CatalogoCache struct {
	repo  repository.CatalogoRepository
	cache *cache.Cache
}

func NewCatalogoCache(repo repository.CatalogoRepository, ttl time.Duration) *CatalogoCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogoCache{repo: repo, cache: cache.New(ttl, 2*ttl)}
}

func (c *CatalogoCache) Area(ctx context.Context, id uuid.UUID) (*model.Area, error) {
	key := "area:" + id.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(*model.Area), nil
	}
	a, err := c.repo.FindArea(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, a)
	return a, nil
}

func (c *CatalogoCache) Modulo(ctx context.Context, id uuid.UUID) (*model.Modulo, error) {
	key := "modulo:" + id.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(*model.Modulo), nil
	}
	m, err := c.repo.FindModulo(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, m)
	return m, nil
}

func (c *CatalogoCache) Profesional(ctx context.Context, id uuid.UUID) (*model.Profesional, error) {
	key := "profesional:" + id.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(*model.Profesional), nil
	}
	p, err := c.repo.FindProfesional(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, p)
	return p, nil
}

// Asignacion is not cached: overrides change with every edit of the assignment form.
func (c *CatalogoCache) Asignacion(ctx context.Context, id uuid.UUID) (*model.Asignacion, error) {
	return c.repo.FindAsignacion(ctx, id)
}

func (c *CatalogoCache) InvalidarArea(id uuid.UUID)        { c.cache.Delete("area:" + id.String()) }
func (c *CatalogoCache) InvalidarModulo(id uuid.UUID)      { c.cache.Delete("modulo:" + id.String()) }
func (c *CatalogoCache) InvalidarProfesional(id uuid.UUID) { c.cache.Delete("profesional:" + id.String()) }

// InvalidarTodo drops every entry, e.g. after a bulk price update.
func (c *CatalogoCache) InvalidarTodo() { c.cache.Flush() }

// nombreModulo is a display helper; an unknown id renders as its short form.
func (c *CatalogoCache) nombreModulo(ctx context.Context, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	m, err := c.Modulo(ctx, *id)
	if err != nil {
		return fmt.Sprintf("Módulo %s", id.String()[:8])
	}
	return m.Nombre
}
