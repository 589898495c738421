package collection

import (
	"github.com/aretw0/introspection"
)

// CollectionState exposes the collection binding for observability.
type CollectionState struct {
	Name        string `json:"name"`
	BaseURL     string `json:"base_url"`
	SessionType string `json:"session_type"`
}

// State implements introspection.Introspectable.
func (c *Collection[T]) State() any {
	sessionType := "session"
	if comp, ok := c.session.(introspection.Component); ok {
		sessionType = comp.ComponentType()
	}
	return CollectionState{
		Name:        c.name,
		BaseURL:     c.baseURL,
		SessionType: sessionType,
	}
}

// ComponentType implements introspection.Component.
func (c *Collection[T]) ComponentType() string {
	return "collection"
}

var _ introspection.Introspectable = (*Collection[any])(nil)
var _ introspection.Component = (*Collection[any])(nil)
