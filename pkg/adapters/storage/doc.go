// Package storage provides document store adapters.
//
// Implementations:
//   - mongodb: MongoDB client and database handle owned for the process lifetime
package storage
