package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/tmaenge-dot/mystore-admin/internal/config"
)

const minioImagePrefix = "images/"

// MinIOBackend stocke les images dans un bucket MinIO / S3.
// PutObject est atomique côté serveur : l'objet n'apparaît qu'une fois complet.
type MinIOBackend struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// ConnectMinio ouvre le client et crée le bucket s'il n'existe pas
func ConnectMinio(ctx context.Context, cfg config.Config) (*MinIOBackend, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		// région fixe : pas de requête GetBucketLocation avant chaque appel
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("client MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("vérification du bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("création du bucket %s: %w", cfg.MinioBucket, err)
		}
		zap.S().Infof("✅ Bucket MinIO %s créé", cfg.MinioBucket)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.MinioEndpoint
	}

	zap.S().Infof("✅ Connecté à MinIO : %s", cfg.MinioEndpoint)
	return NewMinIOBackend(client, cfg.MinioBucket, publicURL), nil
}

func NewMinIOBackend(client *minio.Client, bucket, publicURL string) *MinIOBackend {
	return &MinIOBackend{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (b *MinIOBackend) base() string {
	return b.publicURL + "/" + b.bucket + "/" + minioImagePrefix
}

func (b *MinIOBackend) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	_, err := b.client.PutObject(ctx, b.bucket, minioImagePrefix+name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload MinIO: %w", err)
	}
	return b.base() + name, nil
}

func (b *MinIOBackend) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	return b.client.RemoveObject(ctx, b.bucket, minioImagePrefix+name, minio.RemoveObjectOptions{})
}

func (b *MinIOBackend) List(ctx context.Context) ([]StoredImage, error) {
	// annuler le contexte arrête la goroutine de listage si on sort avant la fin du canal
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []StoredImage
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: minioImagePrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, minioImagePrefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		out = append(out, StoredImage{Name: name, ModTime: obj.LastModified})
	}
	return out, nil
}

func (b *MinIOBackend) NameFromRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, b.base()) {
		return "", false
	}
	name := strings.TrimPrefix(ref, b.base())
	return name, name != "" && !strings.Contains(name, "/")
}
