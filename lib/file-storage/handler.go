package filestorage

import (
	"bytes"
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/bytesandbalance/jovyne-sub000/db"
	filesdbstorage "github.com/bytesandbalance/jovyne-sub000/lib/file-storage/storage"
	requeststore "github.com/bytesandbalance/jovyne-sub000/lib/request/store"
	"github.com/bytesandbalance/jovyne-sub000/models"
	dbmodels "github.com/bytesandbalance/jovyne-sub000/models/db"
	s3client "github.com/bytesandbalance/jovyne-sub000/s3"
)

type Provider interface {
	// UploadProfileImage stores the image bytes in S3 under the metadata row
	// ID and returns that ID.
	UploadProfileImage(ctx context.Context, ref models.RoleRef, fileName, contentType string, data []byte) (id string, err error)
	// UploadRequestImage attaches an event image to a request the role owns.
	UploadRequestImage(ctx context.Context, ref models.RoleRef, requestID, fileName, contentType string, data []byte) (id string, err error)
	GetFile(ctx context.Context, id string) (data []byte, rec *dbmodels.StoredFile, err error)
	ListProfileImages(ref models.RoleRef) (list []dbmodels.StoredFile, err error)
	ListRequestImages(requestID string) (list []dbmodels.StoredFile, err error)
}

var Instance Provider

func NewHandler(s3 s3client.Provider) {
	Instance = impl{
		s3:       s3,
		store:    filesdbstorage.NewInstance(db.DB),
		requests: requeststore.NewInstance(db.DB),
	}
}

type impl struct {
	s3       s3client.Provider
	store    filesdbstorage.Provider
	requests requeststore.Provider
}

func (i impl) UploadProfileImage(ctx context.Context, ref models.RoleRef, fileName, contentType string, data []byte) (string, error) {
	return i.upload(ctx, dbmodels.StoredFile{
		RoleID:      ref.RoleID,
		RoleKind:    ref.Kind,
		Kind:        dbmodels.FileKindProfileImage,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, data)
}

func (i impl) UploadRequestImage(ctx context.Context, ref models.RoleRef, requestID, fileName, contentType string, data []byte) (string, error) {
	request, err := i.requests.GetByID(requestID)
	if err != nil {
		log.WithError(err).Error("request lookup failed")
		return "", err
	}
	if request == nil {
		return "", models.NewNotFoundError("request")
	}
	requester := request.RequesterRef()
	if !requester.Is(ref.Kind, ref.RoleID) {
		return "", models.NewForbiddenError("only the requester can attach images")
	}
	return i.upload(ctx, dbmodels.StoredFile{
		RoleID:      ref.RoleID,
		RoleKind:    ref.Kind,
		RequestID:   &requestID,
		Kind:        dbmodels.FileKindEventImage,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, data)
}

func (i impl) upload(ctx context.Context, rec dbmodels.StoredFile, data []byte) (string, error) {
	id, err := i.store.SaveFile(rec)
	if err != nil {
		log.WithError(err).Error("file metadata save failed")
		return "", err
	}
	err = i.s3.Put(ctx, id, bytes.NewReader(data), int64(len(data)), rec.ContentType)
	if err != nil {
		log.
			WithField("file_id", id).
			WithError(err).
			Error("file upload to s3 failed")
		return "", err
	}
	return id, nil
}

func (i impl) GetFile(ctx context.Context, id string) ([]byte, *dbmodels.StoredFile, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, models.NewNotFoundError("file")
	}
	data, err := i.s3.Get(ctx, id)
	if err != nil {
		log.
			WithField("file_id", id).
			WithError(err).
			Error("file download from s3 failed")
		return nil, nil, err
	}
	return data, rec, nil
}

func (i impl) ListProfileImages(ref models.RoleRef) ([]dbmodels.StoredFile, error) {
	return i.store.ListByRole(ref.RoleID, dbmodels.FileKindProfileImage)
}

func (i impl) ListRequestImages(requestID string) ([]dbmodels.StoredFile, error) {
	return i.store.ListByRequest(requestID)
}
