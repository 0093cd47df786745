// Package di provides a minimal typed-token service container used to wire
// bounded-context modules together without import cycles.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under name, resolving a lazy
	// factory on first access. Panics if the name is unknown.
	Get(name string) any
	// Has reports whether a service is registered under name.
	Has(name string) bool
}

// Container is the write side of the registry.
type Container interface {
	ServiceRegistry
	// Register stores a ready-made service instance.
	Register(name string, service any)
	// RegisterFactory stores a factory resolved lazily on first Get.
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services:  make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

type container struct {
	services  map[string]any
	factories map[string]func(ServiceRegistry) any
	mu        sync.Mutex
}

func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

func (c *container) Get(name string) any {
	c.mu.Lock()
	if svc, ok := c.services[name]; ok {
		c.mu.Unlock()
		return svc
	}
	factory, ok := c.factories[name]
	c.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}

	// Resolve outside the lock so factories can Get their own dependencies.
	svc := factory(c)

	c.mu.Lock()
	c.services[name] = svc
	c.mu.Unlock()

	return svc
}

func (c *container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.services[name]; ok {
		return true
	}
	_, ok := c.factories[name]
	return ok
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry name.
func (t Token[T]) Name() string { return t.name }

// RegisterToken registers a typed factory under the token's name.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service. Panics on missing registration or type
// mismatch - both are wiring bugs, not runtime conditions.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc, ok := sr.Get(token.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type", token.name))
	}
	return svc
}
