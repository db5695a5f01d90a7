package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	filestorage "github.com/bytesandbalance/jovyne-sub000/lib/file-storage"
	s3client "github.com/bytesandbalance/jovyne-sub000/s3"
)

func InitS3(ctx context.Context) {
	client, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("s3 client init failed")
		return
	}
	if err = client.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("s3 bucket creation failed")
	}
	s3client.Instance = client
	filestorage.NewHandler(client)
	log.Info("s3 client initialized")
}
