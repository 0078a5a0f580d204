package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport is an ordered middleware chain applied to a route group.
type Transport struct {
	Middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	t := &Transport{}
	for _, m := range middlewares {
		t.RegisterMiddleware(m)
	}
	return t
}

// GetMiddlewares returns the chain in the form fiber's Use expects.
func (t *Transport) GetMiddlewares() []interface{} {
	handlers := make([]interface{}, len(t.Middlewares))
	for i, m := range t.Middlewares {
		handlers[i] = m.Middleware()
	}
	return handlers
}

func (t *Transport) Empty() bool {
	return t == nil || len(t.Middlewares) == 0
}

func (t *Transport) RegisterMiddleware(m Middleware) {
	if m == nil {
		return
	}
	t.Middlewares = append(t.Middlewares, m)
}
