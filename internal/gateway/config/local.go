package config

import (
	"os"
	"strings"
)

// localDocumentConfig targets the docker-compose minio service. Without
// compose credentials in the environment the store stays disabled and
// documents land in the fallback store instead.
func localDocumentConfig() DocumentStoreConfig {
	access := firstNonEmpty(
		strings.TrimSpace(os.Getenv("DOCUMENT_S3_ACCESS_KEY")),
		strings.TrimSpace(os.Getenv("MINIO_ROOT_USER")),
	)
	secret := firstNonEmpty(
		strings.TrimSpace(os.Getenv("DOCUMENT_S3_SECRET_KEY")),
		strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD")),
	)
	return DocumentStoreConfig{
		Enabled:   access != "" && secret != "",
		Endpoint:  firstNonEmpty(strings.TrimSpace(os.Getenv("DOCUMENT_MINIO_ENDPOINT")), "minio:9000"),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCUMENT_S3_REGION")), "us-east-1"),
		AccessKey: access,
		SecretKey: secret,
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCUMENT_S3_BUCKET")), "clientbrief-documents"),
		UseSSL:    false,
	}
}
