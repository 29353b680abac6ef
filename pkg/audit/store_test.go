package audit

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := DeleteEvent{
		Username:    "admin",
		ClientIP:    "10.0.0.1",
		SignatureID: 3,
		Success:     true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			sqlmock.AnyArg(),  // timestamp
			sqlmock.AnyArg(),  // hostname
			"petition",        // appname
			sqlmock.AnyArg(),  // procid
			"delete",          // msgid
			sqlmock.AnyArg(),  // sdata (JSON)
			"admin deleted signature 3",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(context.Background(), event); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveFailedLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityWarning),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"petition",
			sqlmock.AnyArg(),
			"login",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(context.Background(), LoginEvent{Username: "admin"}); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	if err := store.Save(context.Background(), LoginEvent{}); err != nil {
		t.Errorf("Save() on nil store error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() on nil store error = %v", err)
	}
}

func TestNewStoreDisabled(t *testing.T) {
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Errorf("expected nil store when no URL is configured")
	}
}
