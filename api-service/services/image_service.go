package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"gaurosa-backend/shared/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageService downloads product images from the MazGest asset host and
// stores local copies in MinIO. When storage is unavailable the remote
// URL is served as-is.
type ImageService struct {
	client     *minio.Client
	bucketName string
	publicURL  string
	assetURL   string
	httpClient *http.Client
}

// NewImageService connects to MinIO and ensures the product bucket exists
func NewImageService() (*ImageService, error) {
	cfg := config.GetConfig()

	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", parsedURL.Host, cfg.MinIOUseSSL)

	minioClient, err := minio.New(parsedURL.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &ImageService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
		publicURL:  strings.TrimRight(cfg.MinIOPublicURL, "/"),
		assetURL:   strings.TrimRight(cfg.MazGestAssetURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *ImageService) initializeBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	}

	return nil
}

// ResolveRemoteURL turns a relative asset path from MazGest into an
// absolute URL on the asset host.
func (s *ImageService) ResolveRemoteURL(imageURL string) string {
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}
	return s.assetURL + "/" + strings.TrimLeft(imageURL, "/")
}

// LocalizeImage downloads a product image and stores it under
// products/<code>/<position><ext>. Returns the local public URL, or the
// remote URL when download or storage fails.
func (s *ImageService) LocalizeImage(ctx context.Context, productCode, imageURL string, position int) string {
	remoteURL := s.ResolveRemoteURL(imageURL)

	resp, err := s.httpClient.Get(remoteURL)
	if err != nil {
		log.Printf("❌ Image download failed for %s: %v", remoteURL, err)
		return remoteURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Image download for %s returned status %d", remoteURL, resp.StatusCode)
		return remoteURL
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectName := fmt.Sprintf("products/%s/%d%s", strings.ToLower(productCode), position, imageExtension(remoteURL, contentType))

	_, err = s.client.PutObject(ctx, s.bucketName, objectName, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("❌ Failed to store image %s: %v", objectName, err)
		return remoteURL
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucketName, objectName)
}

func imageExtension(remoteURL, contentType string) string {
	if ext := path.Ext(remoteURL); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
