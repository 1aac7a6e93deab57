// Package health tracks database connectivity for the booking API.
//
// The monitor pings the document store on demand and on a fixed interval,
// caches the last result, records metrics and notifies subscribers when a
// check completes. Liveness never depends on it; status and readiness
// reporting do.
package health
