package auth

import (
	"context"
	"fmt"

	"github.com/doodlesbykumbi/petition-in-go/pkg/audit"
	"github.com/doodlesbykumbi/petition-in-go/pkg/identity"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
)

// DeletionResult is the outcome of a deletion request
type DeletionResult int

const (
	// Unauthorized is the zero value so an unset result denies
	Unauthorized DeletionResult = iota
	Deleted
)

func (r DeletionResult) String() string {
	switch r {
	case Deleted:
		return "deleted"
	default:
		return "unauthorized"
	}
}

// DeletionGate lets only authenticated sessions delete signatures
type DeletionGate struct {
	gate       *Gate
	signatures store.SignaturesStore
	auditor    audit.Recorder
}

// NewDeletionGate creates a DeletionGate
func NewDeletionGate(gate *Gate, signatures store.SignaturesStore) *DeletionGate {
	return &DeletionGate{
		gate:       gate,
		signatures: signatures,
		auditor:    gate.auditor,
	}
}

// DeleteByID deletes signature id if sessionID resolves to Authenticated.
// The gate check runs before anything else. Deleting a missing id succeeds.
func (d *DeletionGate) DeleteByID(ctx context.Context, sessionID string, id uint) (DeletionResult, error) {
	res, err := d.gate.Resolve(ctx, sessionID)
	if err != nil {
		return Unauthorized, err
	}

	event := audit.DeleteEvent{
		ClientIP:    identity.RemoteIP(ctx),
		SignatureID: id,
	}
	if !res.Authenticated() {
		event.Reason = "not authenticated"
		d.auditor.Log(ctx, event)
		return Unauthorized, nil
	}
	event.Username = res.Principal.Username

	if err := d.signatures.Delete(ctx, id); err != nil {
		event.Reason = "repository error"
		d.auditor.Log(ctx, event)
		return Unauthorized, fmt.Errorf("auth: delete signature %d: %w", id, err)
	}

	event.Success = true
	d.auditor.Log(ctx, event)
	return Deleted, nil
}
