package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/dbx"
	"github.com/recordvault/recordvault/internal/logging"
	"github.com/recordvault/recordvault/internal/server/models"
	"github.com/recordvault/recordvault/internal/server/repositories/records"
	"github.com/recordvault/recordvault/internal/server/repositories/repomanager"
	"github.com/recordvault/recordvault/internal/server/repositories/users"
)

// -------- test fakes --------

// fakeRecordsRepo keeps records in a map and mimics the store's merged
// not-found semantics and the single-query token lookup.
type fakeRecordsRepo struct {
	records.Repository
	items map[string]*models.Record

	createErr error
	findErr   error
	setErr    error
}

func newFakeRecordsRepo() *fakeRecordsRepo {
	return &fakeRecordsRepo{items: map[string]*models.Record{}}
}

func (f *fakeRecordsRepo) Create(ctx context.Context, record *models.Record) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *record
	f.items[record.ID] = &cp
	return nil
}

func (f *fakeRecordsRepo) FindOwned(ctx context.Context, ownerID, recordID string) (*models.Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	r, ok := f.items[recordID]
	if !ok || r.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecordsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	var out []*models.Record
	for _, r := range f.items {
		if r.OwnerID == ownerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRecordsRepo) DeleteOwned(ctx context.Context, ownerID, recordID string) (string, error) {
	r, ok := f.items[recordID]
	if !ok || r.OwnerID != ownerID {
		return "", common.ErrorNotFound
	}
	delete(f.items, recordID)
	return r.StoredName, nil
}

func (f *fakeRecordsRepo) SetShareToken(ctx context.Context, ownerID, recordID, token string, expires time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	r, ok := f.items[recordID]
	if !ok || r.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	r.ShareToken = &token
	r.ShareTokenExpires = &expires
	return nil
}

func (f *fakeRecordsRepo) FindByActiveToken(ctx context.Context, token string, now time.Time) (*models.Record, error) {
	for _, r := range f.items {
		if r.ShareToken != nil && *r.ShareToken == token && r.ShareTokenExpires.After(now) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeUsersRepo struct {
	users.Repository
	byExternal map[string]*models.User

	createErr    error
	onCreateFail func()
	nextID       int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byExternal: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		if f.onCreateFail != nil {
			f.onCreateFail()
		}
		return nil, f.createErr
	}
	f.nextID++
	user.ID = string(rune('a' + f.nextID))
	user.CreatedAt = time.Now()
	f.byExternal[user.ExternalID] = user
	return user, nil
}

func (f *fakeUsersRepo) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	u, ok := f.byExternal[externalID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
	r *fakeRecordsRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository     { return m.u }
func (m *fakeRepoManager) Records(db dbx.DBTX) records.Repository { return m.r }

// fakeBlobStore keeps payloads in memory.
type fakeBlobStore struct {
	objects map[string][]byte
	seq     int

	putErr error
	getErr error
	delErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(ctx context.Context, payload io.Reader) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(payload)
	if err != nil {
		return "", err
	}
	f.seq++
	name := "blob-" + string(rune('0'+f.seq))
	f.objects[name] = b
	return name, nil
}

func (f *fakeBlobStore) Get(ctx context.Context, storedName string) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[storedName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, storedName string) (bool, error) {
	if f.delErr != nil {
		return false, f.delErr
	}
	_, ok := f.objects[storedName]
	delete(f.objects, storedName)
	return ok, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
