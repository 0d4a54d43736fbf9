package models

import "github.com/toyz/splice/internal/jsast"

// RegisterExport is the function every wrapped route module exports.
const RegisterExport = "__register"

// RouterMethods are the methods of the routing module that define a route.
var RouterMethods = []string{"page", "error", "get", "post", "put", "delete", "patch"}

// DataFetcher is one `key: expression` entry hoisted from an api.fetch call.
// An empty Key stands for a `...expression` spread.
type DataFetcher struct {
	Key   string
	Value jsast.Expr
}

// RouteDefinition is a top-level `<router>.<method>(...)` call
type RouteDefinition struct {
	Call        *jsast.CallExpr // the definition call, mutated in place
	Router      string          // local name of the object the method is called on
	Method      string          // one of RouterMethods
	Fetchers    []DataFetcher   // hoisted data fetchers, in source order
	ContextName string          // name the renderer exposes the request context under, if any
}
