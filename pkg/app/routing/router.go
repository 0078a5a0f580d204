package routing

import (
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
)

type Destinations struct {
	Human string
	Bot   string
}

func (d Destinations) For(c classification.Classification) string {
	if c == classification.Bot {
		return d.Bot
	}
	return d.Human
}

type Route struct {
	URL            string
	ParamsStripped bool
}

type Router interface {
	Route(req visitor.Request, c classification.Classification) Route
	Destinations() Destinations
}

type router struct {
	destinations Destinations
}

func NewRouter(destinations Destinations) Router {
	return &router{destinations: destinations}
}

func (r *router) Route(req visitor.Request, c classification.Classification) Route {
	params, stripped := OutboundParams(ParamsFromRequest(req), c)
	return Route{
		URL:            AppendParams(r.destinations.For(c), params),
		ParamsStripped: stripped,
	}
}

func (r *router) Destinations() Destinations {
	return r.destinations
}
