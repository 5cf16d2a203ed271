package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"metro/apperrors"
	"metro/config"
	"metro/models"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// StorageService issues upload targets for user files. Objects are never read by the core.
type StorageService interface {
	UploadURL(ctx context.Context, actor models.Actor, req models.UploadURLRequest) (*models.UploadURL, error)
	DeleteFile(ctx context.Context, objectPath string) error
}

// URLSigner signs object URLs. *storage.BucketHandle satisfies it.
type URLSigner interface {
	SignedURL(object string, opts *storage.SignedURLOptions) (string, error)
}

// GCSStorageService signs V4 upload URLs for a Cloud Storage bucket.
type GCSStorageService struct {
	client         *storage.Client
	signer         URLSigner
	bucketName     string
	serviceAccount *config.ServiceAccount
	ttl            time.Duration
	now            func() time.Time
}

// NewGCSStorageService creates a GCSStorageService signing with the given service account key.
func NewGCSStorageService(ctx context.Context, serviceAccountJSONPath, bucketName string, ttl time.Duration) (*GCSStorageService, error) {
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountJSONPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	sa, err := loadServiceAccount(serviceAccountJSONPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load service account for signing URLs: %w", err)
	}

	svc := newService(client.Bucket(bucketName), bucketName, sa, ttl)
	svc.client = client
	return svc, nil
}

func newService(signer URLSigner, bucketName string, sa *config.ServiceAccount, ttl time.Duration) *GCSStorageService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &GCSStorageService{
		signer:         signer,
		bucketName:     bucketName,
		serviceAccount: sa,
		ttl:            ttl,
		now:            time.Now,
	}
}

var allowedTypes = map[models.UploadKind]map[string]string{
	models.UploadProfilePicture: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
	models.UploadPartnerDocument: {
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"application/pdf": ".pdf",
	},
}

// UploadURL returns a signed PUT URL for a new object owned by the actor.
func (s *GCSStorageService) UploadURL(ctx context.Context, actor models.Actor, req models.UploadURLRequest) (*models.UploadURL, error) {
	types, ok := allowedTypes[req.Kind]
	if !ok {
		return nil, apperrors.Validation("unknown upload kind " + string(req.Kind))
	}
	if req.Kind == models.UploadPartnerDocument && actor.Role != models.RolePartner {
		return nil, apperrors.Forbidden("only partners can upload documents")
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := types[contentType]
	if !ok {
		return nil, apperrors.Validation("content type " + req.ContentType + " is not allowed for " + string(req.Kind))
	}
	if strings.TrimSpace(req.FileName) == "" {
		return nil, apperrors.Validation("fileName is required")
	}

	objectPath := path.Join(folderFor(req.Kind), actor.ID, uuid.New().String()+ext)
	expires := s.now().Add(s.ttl)

	url, err := s.signer.SignedURL(objectPath, &storage.SignedURLOptions{
		GoogleAccessID: s.serviceAccount.ClientEmail,
		PrivateKey:     []byte(strings.ReplaceAll(s.serviceAccount.PrivateKey, `\n`, "\n")),
		Method:         "PUT",
		Expires:        expires,
		ContentType:    contentType,
		Scheme:         storage.SigningSchemeV4,
	})
	if err != nil {
		return nil, apperrors.External("failed to sign upload URL", err)
	}

	return &models.UploadURL{
		URL:        url,
		Method:     "PUT",
		ObjectPath: objectPath,
		Headers:    map[string]string{"Content-Type": contentType},
		ExpiresAt:  expires,
	}, nil
}

// DeleteFile deletes an object from the bucket.
func (s *GCSStorageService) DeleteFile(ctx context.Context, objectPath string) error {
	if s.client == nil {
		return apperrors.Internal("storage client not configured", nil)
	}
	if err := s.client.Bucket(s.bucketName).Object(objectPath).Delete(ctx); err != nil {
		return apperrors.External("failed to delete file", err)
	}
	return nil
}

func (s *GCSStorageService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func folderFor(kind models.UploadKind) string {
	if kind == models.UploadPartnerDocument {
		return "private/documents"
	}
	return "public/images"
}

func loadServiceAccount(p string) (*config.ServiceAccount, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var sa config.ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, err
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("service account %s lacks client_email or private_key", p)
	}
	return &sa, nil
}
