// Package http exposes the simulation engine over HTTP.
//
// The router serves the following endpoints:
//   - POST /events/{id}/simulations: simulates a stored event and returns the
//     SimulationResult JSON.
//   - POST /simulations: simulates the RawSnapshot in the request body.
//   - GET /healthz: reports whether the event store answers.
//   - GET /metrics: prometheus exposition.
//
// Issue texts follow the `locale` query parameter, then the Accept-Language
// header, then the configured default locale. Error bodies carry Japanese
// messages in the `errorResponse` shape defined in responder.go.
package http
