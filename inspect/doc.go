// Package inspect serves a local HTTP introspection API over the builtin
// registry.
//
// Routes:
//
//	GET  /health        liveness and number of registered types
//	GET  /version       build information
//	GET  /types         every registered type with its doc and slots
//	GET  /types/:name   one type
//	GET  /functions     the named functions usable as a mapper
//	POST /eval          evaluate a type over JSON data
//
// An /eval body looks like
//
//	{"type": "map", "fn": "add", "iterables": [[1, 2, 3], [10, 20]], "limit": 100}
//
// and answers {"data": {"values": [11, 22], "steps": 3, ...}}. Failures use
// the errors.ErrorResponse body with the status carried by the AppError.
// /eval is admitted through a token bucket (inspect.eval_rate, eval_burst);
// rejected requests get 429 with a Retry-After header.
package inspect
