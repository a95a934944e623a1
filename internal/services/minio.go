package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"vastra_back_end/internal/database"
)

const ProductImagesBucket = "product-images"

// UploadProductImage pousse une image produit dans MinIO et retourne son URL
// publique. Le nom d'objet est préfixé d'un UUID pour éviter les collisions.
func UploadProductImage(file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := uuid.NewString() + "-" + file.Filename

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = database.MinIO.PutObject(ctx, ProductImagesBucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), ProductImagesBucket, objectName)
	return url, nil
}

// PresignedImageURL génère une URL signée temporaire pour un objet privé
func PresignedImageURL(objectName string, expiry time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	u, err := database.MinIO.PresignedGetObject(context.Background(), ProductImagesBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
