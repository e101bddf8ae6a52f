package memory

import (
	"context"
	"sync"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
)

// Catalog is a read-only product directory seeded at startup or by tests.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
}

func NewCatalog(products ...catalog.Product) *Catalog {
	c := &Catalog{products: make(map[string]catalog.Product, len(products))}
	for _, p := range products {
		c.Put(p)
	}
	return c
}

func (c *Catalog) Put(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	_ = ctx
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok || !p.Active {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

type Directory struct {
	mu    sync.RWMutex
	users map[string]identity.User
}

func NewDirectory(users ...identity.User) *Directory {
	d := &Directory{users: make(map[string]identity.User, len(users))}
	for _, u := range users {
		d.Put(u)
	}
	return d
}

func (d *Directory) Put(u identity.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *Directory) GetUser(ctx context.Context, id string) (*identity.User, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok || !u.Active {
		return nil, identity.ErrNotFound
	}
	return &u, nil
}
