// Package store provides storage abstractions for the petition server.
//
// This package defines interfaces for database operations, allowing the
// authentication gate, the listing and the endpoints to be decoupled from the
// specific database implementation. GORM-backed implementations live in the
// gorm subpackage; tests use testify mocks.
//
// # Available Stores
//
//   - PrincipalsStore: principal lookup by username or id, provisioning
//   - SignaturesStore: signature count, window listing, creation, deletion
//   - HealthStore: database connectivity
//
// # Usage
//
//	principals := gorm.NewPrincipalsStore(db)
//	p, err := principals.FindByUsername(ctx, "admin")
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
