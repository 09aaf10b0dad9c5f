package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawshome/internal/models"
	"pawshome/internal/repository"
)

type fakeCatStore struct {
	cats map[string]*models.Cat
}

func newFakeCatStore(cats ...*models.Cat) *fakeCatStore {
	store := &fakeCatStore{cats: make(map[string]*models.Cat)}
	for _, cat := range cats {
		store.cats[cat.ID] = cat
	}
	return store
}

func (f *fakeCatStore) GetByID(_ context.Context, id string) (models.Cat, error) {
	cat, ok := f.cats[id]
	if !ok {
		return models.Cat{}, repository.ErrCatNotFound
	}
	return *cat, nil
}

func (f *fakeCatStore) SetTrashed(_ context.Context, id string, by string) error {
	cat, ok := f.cats[id]
	if !ok {
		return repository.ErrCatNotFound
	}
	if cat.Locked {
		return repository.ErrCatLocked
	}
	cat.Deleted = true
	cat.DeletedBy = &by
	return nil
}

func (f *fakeCatStore) ClearTrashed(_ context.Context, id string) error {
	cat, ok := f.cats[id]
	if !ok {
		return repository.ErrCatNotFound
	}
	cat.Deleted = false
	cat.DeletedBy = nil
	return nil
}

func (f *fakeCatStore) SetLocked(_ context.Context, id string, reason string, by string) error {
	cat, ok := f.cats[id]
	if !ok {
		return repository.ErrCatNotFound
	}
	cat.Locked = true
	cat.LockedReason = &reason
	cat.LockedBy = &by
	return nil
}

func (f *fakeCatStore) ClearLocked(_ context.Context, id string) error {
	cat, ok := f.cats[id]
	if !ok {
		return repository.ErrCatNotFound
	}
	cat.Locked = false
	cat.LockedReason = nil
	cat.LockedBy = nil
	return nil
}

func (f *fakeCatStore) Delete(_ context.Context, id string) error {
	cat, ok := f.cats[id]
	if !ok {
		return repository.ErrCatNotFound
	}
	if cat.Locked {
		return repository.ErrCatLocked
	}
	delete(f.cats, id)
	return nil
}

type fakeMediaStore struct {
	items map[string]*models.MediaItem
}

func newFakeMediaStore(items ...*models.MediaItem) *fakeMediaStore {
	store := &fakeMediaStore{items: make(map[string]*models.MediaItem)}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (f *fakeMediaStore) GetByID(_ context.Context, id string) (models.MediaItem, error) {
	item, ok := f.items[id]
	if !ok {
		return models.MediaItem{}, repository.ErrMediaNotFound
	}
	return *item, nil
}

func (f *fakeMediaStore) SetTrashed(_ context.Context, id string, by string) error {
	item, ok := f.items[id]
	if !ok {
		return repository.ErrMediaNotFound
	}
	if item.Locked {
		return repository.ErrMediaLocked
	}
	item.Deleted = true
	item.DeletedBy = &by
	return nil
}

func (f *fakeMediaStore) ClearTrashed(_ context.Context, id string) error {
	item, ok := f.items[id]
	if !ok {
		return repository.ErrMediaNotFound
	}
	item.Deleted = false
	item.DeletedBy = nil
	return nil
}

func (f *fakeMediaStore) SetLocked(_ context.Context, id string, reason string, by string) error {
	item, ok := f.items[id]
	if !ok {
		return repository.ErrMediaNotFound
	}
	item.Locked = true
	item.LockedReason = &reason
	item.LockedBy = &by
	return nil
}

func (f *fakeMediaStore) ClearLocked(_ context.Context, id string) error {
	item, ok := f.items[id]
	if !ok {
		return repository.ErrMediaNotFound
	}
	item.Locked = false
	item.LockedReason = nil
	item.LockedBy = nil
	return nil
}

func (f *fakeMediaStore) Delete(_ context.Context, id string) error {
	item, ok := f.items[id]
	if !ok {
		return repository.ErrMediaNotFound
	}
	if item.Locked {
		return repository.ErrMediaLocked
	}
	delete(f.items, id)
	return nil
}

type fakeObjectRemover struct {
	removed []string
	err     error
}

func (f *fakeObjectRemover) Remove(_ context.Context, objectKey string) error {
	f.removed = append(f.removed, objectKey)
	return f.err
}

type recordedActivity struct {
	actor, action, entity, entityID, detail string
}

type fakeRecorder struct {
	entries []recordedActivity
}

func (f *fakeRecorder) Record(_ context.Context, actor, action, entity, entityID, detail string) {
	f.entries = append(f.entries, recordedActivity{actor, action, entity, entityID, detail})
}

func (f *fakeRecorder) actions() []string {
	var out []string
	for _, entry := range f.entries {
		out = append(out, entry.action)
	}
	return out
}

func newLifecycleFixture(cats *fakeCatStore, media *fakeMediaStore) (*LifecycleService, *fakeObjectRemover, *fakeRecorder) {
	objects := &fakeObjectRemover{}
	recorder := &fakeRecorder{}
	svc := NewLifecycleService(cats, media, objects, recorder, zerolog.Nop())
	return svc, objects, recorder
}

func TestTrashCatThenRestore(t *testing.T) {
	cats := newFakeCatStore(&models.Cat{ID: "cat-1", Name: "Miso"})
	svc, _, recorder := newLifecycleFixture(cats, newFakeMediaStore())

	require.NoError(t, svc.TrashCat(context.Background(), "cat-1", "admin-1"))
	assert.True(t, cats.cats["cat-1"].Deleted)

	require.NoError(t, svc.RestoreCat(context.Background(), "cat-1", "admin-1"))
	assert.False(t, cats.cats["cat-1"].Deleted)
	assert.Nil(t, cats.cats["cat-1"].DeletedBy)

	assert.Equal(t, []string{"trash", "restore"}, recorder.actions())
}

func TestTrashCatIdempotent(t *testing.T) {
	cats := newFakeCatStore(&models.Cat{ID: "cat-1", Name: "Miso", Lifecycle: models.Lifecycle{Deleted: true}})
	svc, _, recorder := newLifecycleFixture(cats, newFakeMediaStore())

	require.NoError(t, svc.TrashCat(context.Background(), "cat-1", "admin-1"))
	// Already trashed: success without another audit entry.
	assert.Empty(t, recorder.entries)
}

func TestRestoreCatNotTrashedIsNoop(t *testing.T) {
	cats := newFakeCatStore(&models.Cat{ID: "cat-1", Name: "Miso"})
	svc, _, recorder := newLifecycleFixture(cats, newFakeMediaStore())

	require.NoError(t, svc.RestoreCat(context.Background(), "cat-1", "admin-1"))
	assert.Empty(t, recorder.entries)
}

func TestLockedCatCannotBeTrashedOrPurged(t *testing.T) {
	cats := newFakeCatStore(&models.Cat{ID: "cat-1", Name: "Miso"})
	svc, _, _ := newLifecycleFixture(cats, newFakeMediaStore())

	_, err := svc.LockCat(context.Background(), "cat-1", "featured on homepage", "admin-1")
	require.NoError(t, err)

	err = svc.TrashCat(context.Background(), "cat-1", "admin-2")
	assert.ErrorIs(t, err, ErrLockedConflict)
	assert.False(t, cats.cats["cat-1"].Deleted)

	err = svc.PurgeCat(context.Background(), "cat-1", "admin-2")
	assert.ErrorIs(t, err, ErrLockedConflict)
	_, ok := cats.cats["cat-1"]
	assert.True(t, ok)
}

func TestLockCatRequiresReason(t *testing.T) {
	svc, _, _ := newLifecycleFixture(newFakeCatStore(&models.Cat{ID: "cat-1"}), newFakeMediaStore())

	_, err := svc.LockCat(context.Background(), "cat-1", "   ", "admin-1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLockCatIdempotent(t *testing.T) {
	reason := "original reason"
	cats := newFakeCatStore(&models.Cat{
		ID:        "cat-1",
		Lifecycle: models.Lifecycle{Locked: true, LockedReason: &reason},
	})
	svc, _, recorder := newLifecycleFixture(cats, newFakeMediaStore())

	cat, err := svc.LockCat(context.Background(), "cat-1", "new reason", "admin-1")
	require.NoError(t, err)

	// The original lock wins; no mutation, no audit entry.
	assert.Equal(t, "original reason", *cat.LockedReason)
	assert.Empty(t, recorder.entries)
}

func TestUnlockThenTrashCat(t *testing.T) {
	reason := "hold"
	cats := newFakeCatStore(&models.Cat{
		ID:        "cat-1",
		Lifecycle: models.Lifecycle{Locked: true, LockedReason: &reason},
	})
	svc, _, recorder := newLifecycleFixture(cats, newFakeMediaStore())

	require.NoError(t, svc.UnlockCat(context.Background(), "cat-1", "admin-1"))
	require.NoError(t, svc.TrashCat(context.Background(), "cat-1", "admin-1"))

	assert.True(t, cats.cats["cat-1"].Deleted)
	assert.Equal(t, []string{"unlock", "trash"}, recorder.actions())
}

func TestPurgeCatMissing(t *testing.T) {
	svc, _, _ := newLifecycleFixture(newFakeCatStore(), newFakeMediaStore())

	err := svc.PurgeCat(context.Background(), "nope", "admin-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycleEmptyID(t *testing.T) {
	svc, _, _ := newLifecycleFixture(newFakeCatStore(), newFakeMediaStore())

	assert.ErrorIs(t, svc.TrashCat(context.Background(), "", "admin-1"), ErrValidation)
	assert.ErrorIs(t, svc.TrashMedia(context.Background(), "", "admin-1"), ErrValidation)
}

func TestPurgeMediaRemovesObject(t *testing.T) {
	media := newFakeMediaStore(&models.MediaItem{ID: "m-1", FileName: "miso.jpg", ObjectKey: "2026/01/02/abc.jpg"})
	svc, objects, recorder := newLifecycleFixture(newFakeCatStore(), media)

	require.NoError(t, svc.PurgeMedia(context.Background(), "m-1", "admin-1"))

	_, ok := media.items["m-1"]
	assert.False(t, ok)
	assert.Equal(t, []string{"2026/01/02/abc.jpg"}, objects.removed)
	assert.Equal(t, []string{"purge"}, recorder.actions())
}

func TestPurgeMediaObjectRemovalFailureIsSwallowed(t *testing.T) {
	media := newFakeMediaStore(&models.MediaItem{ID: "m-1", ObjectKey: "k"})
	svc, objects, _ := newLifecycleFixture(newFakeCatStore(), media)
	objects.err = assert.AnError

	// The row is gone; a dangling object is a sweep problem, not an error.
	require.NoError(t, svc.PurgeMedia(context.Background(), "m-1", "admin-1"))
	_, ok := media.items["m-1"]
	assert.False(t, ok)
}

func TestLockedMediaCannotBeTrashed(t *testing.T) {
	media := newFakeMediaStore(&models.MediaItem{ID: "m-1", FileName: "hero.png"})
	svc, _, _ := newLifecycleFixture(newFakeCatStore(), media)

	_, err := svc.LockMedia(context.Background(), "m-1", "used in site header", "admin-1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.TrashMedia(context.Background(), "m-1", "admin-2"), ErrLockedConflict)
	assert.ErrorIs(t, svc.PurgeMedia(context.Background(), "m-1", "admin-2"), ErrLockedConflict)
	assert.False(t, media.items["m-1"].Deleted)
}

func TestRestoreMediaRoundTrip(t *testing.T) {
	media := newFakeMediaStore(&models.MediaItem{ID: "m-1", FileName: "hero.png"})
	svc, _, _ := newLifecycleFixture(newFakeCatStore(), media)

	require.NoError(t, svc.TrashMedia(context.Background(), "m-1", "admin-1"))
	assert.True(t, media.items["m-1"].Deleted)

	require.NoError(t, svc.RestoreMedia(context.Background(), "m-1", "admin-1"))
	assert.False(t, media.items["m-1"].Deleted)
}
