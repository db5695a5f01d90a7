package filestorage

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytesandbalance/jovyne-sub000/models"
	requestapimodels "github.com/bytesandbalance/jovyne-sub000/models/api/request"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
)

type fakeFileDB struct {
	recs map[string]*dbmodels.StoredFile
	seq  int
}

func newFakeFileDB() *fakeFileDB {
	return &fakeFileDB{recs: map[string]*dbmodels.StoredFile{}}
}

func (f *fakeFileDB) SaveFile(rec dbmodels.StoredFile) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("file-%d", f.seq)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeFileDB) GetByID(id string) (*dbmodels.StoredFile, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeFileDB) ListByRole(roleID string, kind dbmodels.FileKind) ([]dbmodels.StoredFile, error) {
	list := []dbmodels.StoredFile{}
	for _, rec := range f.recs {
		if rec.RoleID == roleID && rec.Kind == kind {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeFileDB) ListByRequest(requestID string) ([]dbmodels.StoredFile, error) {
	list := []dbmodels.StoredFile{}
	for _, rec := range f.recs {
		if rec.RequestID != nil && *rec.RequestID == requestID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) MakeBucket(ctx context.Context) error { return nil }

func (f *fakeObjectStore) Put(ctx context.Context, objectID string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[objectID] = data
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, objectID string) ([]byte, error) {
	return f.objects[objectID], nil
}

type fakeRequestDB struct {
	recs map[string]*dbmodels.Request
}

func (f fakeRequestDB) Create(rec dbmodels.Request) (string, error) { return "", nil }

func (f fakeRequestDB) GetByID(id string) (*dbmodels.Request, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f fakeRequestDB) Update(id string, updMap map[string]interface{}) error { return nil }

func (f fakeRequestDB) UpdateWithStatus(id string, expected models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	return false, nil
}

func (f fakeRequestDB) ListCount(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) (int64, error) {
	return 0, nil
}

func (f fakeRequestDB) List(filter requestapimodels.RequestFilter, ownerRef *models.RoleRef) ([]dbmodels.Request, error) {
	return nil, nil
}

func (f fakeRequestDB) CountOpen(kind models.RequestKind) (int64, error) { return 0, nil }

func newFileHandler() (impl, *fakeFileDB, *fakeObjectStore) {
	owner := "c1"
	store := newFakeFileDB()
	objects := newFakeObjectStore()
	requests := fakeRequestDB{recs: map[string]*dbmodels.Request{
		"req-1": {
			BaseModel: dbmodels.BaseModel{ID: "req-1"},
			Kind:      models.RequestKindHelper,
			ClientID:  &owner,
			Status:    models.RequestStatusOpen,
		},
	}}
	return impl{s3: objects, store: store, requests: requests}, store, objects
}

var imageOwner = models.RoleRef{Kind: models.RoleKindClient, RoleID: "c1"}

func TestProfileImages(t *testing.T) {
	h, _, objects := newFileHandler()
	ctx := context.Background()

	id, err := h.UploadProfileImage(ctx, imageOwner, "avatar.png", "image/png", []byte("png-bytes"))
	require.Nil(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, []byte("png-bytes"), objects.objects[id])

	list, err := h.ListProfileImages(imageOwner)
	require.Nil(t, err)
	require.Len(t, list, 1)
	require.Equal(t, id, list[0].ID)
	require.Equal(t, "avatar.png", list[0].FileName)

	other := models.RoleRef{Kind: models.RoleKindHelper, RoleID: "h1"}
	list, err = h.ListProfileImages(other)
	require.Nil(t, err)
	require.Empty(t, list)

	data, rec, err := h.GetFile(ctx, id)
	require.Nil(t, err)
	require.Equal(t, []byte("png-bytes"), data)
	require.Equal(t, "image/png", rec.ContentType)
}

func TestRequestImages(t *testing.T) {
	ctx := context.Background()

	t.Run(`requester attaches an image`, func(t *testing.T) {
		h, _, objects := newFileHandler()
		id, err := h.UploadRequestImage(ctx, imageOwner, "req-1", "venue.jpg", "image/jpeg", []byte("jpg-bytes"))
		require.Nil(t, err)
		require.Equal(t, []byte("jpg-bytes"), objects.objects[id])

		list, err := h.ListRequestImages("req-1")
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "venue.jpg", list[0].FileName)
	})

	t.Run(`non-requester is rejected`, func(t *testing.T) {
		h, store, _ := newFileHandler()
		stranger := models.RoleRef{Kind: models.RoleKindPlanner, RoleID: "p1"}
		_, err := h.UploadRequestImage(ctx, stranger, "req-1", "venue.jpg", "image/jpeg", []byte("jpg-bytes"))
		require.True(t, models.IsForbidden(err))
		require.Empty(t, store.recs)
	})

	t.Run(`unknown request`, func(t *testing.T) {
		h, _, _ := newFileHandler()
		_, err := h.UploadRequestImage(ctx, imageOwner, "req-404", "venue.jpg", "image/jpeg", []byte("jpg-bytes"))
		require.True(t, models.IsNotFound(err))
	})
}

func TestGetFileMissing(t *testing.T) {
	h, _, _ := newFileHandler()
	_, _, err := h.GetFile(context.Background(), "file-404")
	require.True(t, models.IsNotFound(err))
}
