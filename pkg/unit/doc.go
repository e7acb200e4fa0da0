// Package unit hosts chart transforms behind a message boundary.
//
// A Unit is a set of goroutines that owns its inbox and outbox. Callers hand
// it encoded request frames and read encoded reply frames back; nothing else
// crosses the boundary. Every request yields exactly one reply: a success
// frame carrying the chart data or an error frame with a code and message.
//
// Frames carrying an id are answered in the correlated shape
//
//	{"id": 7, "data": {...}}
//	{"id": 7, "error": {"code": "domain_error", "message": "..."}}
//
// and frames without one in the legacy shape
//
//	{"action": "treemapReady", "chartData": {...}}
//	{"action": "error", "error": "..."}
package unit
