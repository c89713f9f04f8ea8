package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	DataDir     string
	Document    DocumentStoreConfig
}

// DocumentStoreConfig selects the object-storage backend for generated
// documents. Enabled without complete credentials means the app falls
// back to the database or in-memory store.
type DocumentStoreConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (c DocumentStoreConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	dataDir := strings.TrimSpace(os.Getenv("DATA_DIR"))
	if dataDir == "" {
		dataDir = "tmp"
	}

	return &Config{
		Port:        *port,
		Env:         env,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DataDir:     dataDir,
		Document:    loadDocumentConfig(env),
	}, nil
}

func loadDocumentConfig(env string) DocumentStoreConfig {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return localDocumentConfig()
	}
	endpoint := strings.TrimSpace(os.Getenv("DOCUMENT_S3_ENDPOINT"))
	return DocumentStoreConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCUMENT_S3_REGION")), "us-east-1"),
		AccessKey: strings.TrimSpace(os.Getenv("DOCUMENT_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("DOCUMENT_S3_SECRET_KEY")),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCUMENT_S3_BUCKET")), "clientbrief-documents"),
		UseSSL:    resolveDocumentUseSSL(),
	}
}

func resolveDocumentUseSSL() bool {
	raw := strings.TrimSpace(os.Getenv("DOCUMENT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
