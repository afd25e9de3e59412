package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var cld *cloudinary.Cloudinary

// MaxImageSize taille maximale acceptée pour une image de courbe (5 Mo)
const MaxImageSize = 5 * 1024 * 1024

// Types MIME acceptés pour les images de courbes de phase
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// InitCloudinary initialise la connexion à Cloudinary
func InitCloudinary() error {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return fmt.Errorf("les variables d'environnement Cloudinary ne sont pas définies")
	}

	var err error
	cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return fmt.Errorf("erreur lors de l'initialisation de Cloudinary: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err = cld.Admin.Ping(ctx); err != nil {
		return fmt.Errorf("erreur lors de la vérification de la connexion à Cloudinary: %v", err)
	}

	LogSuccess("Cloudinary initialisé avec succès")
	return nil
}

func boolPointer(b bool) *bool {
	return &b
}

// ValidateImageFile vérifie le type et la taille d'un fichier avant tout upload.
// Retourne un message d'erreur orienté champ, ou une chaîne vide.
func ValidateImageFile(file *multipart.FileHeader) string {
	if !isAllowedImageType(file) {
		return fmt.Sprintf("unsupported image type for %s: use JPEG, PNG or WebP", file.Filename)
	}
	if file.Size > MaxImageSize {
		return fmt.Sprintf("image %s exceeds the 5MB limit", file.Filename)
	}
	return ""
}

func isAllowedImageType(file *multipart.FileHeader) bool {
	if contentType := file.Header.Get("Content-Type"); contentType != "" {
		return allowedImageTypes[strings.ToLower(contentType)]
	}
	// Pas de Content-Type fourni : on retombe sur l'extension
	lower := strings.ToLower(file.Filename)
	for _, ext := range allowedImageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// UploadReportImage envoie une image de courbe vers Cloudinary et retourne
// son URL sécurisée et son public ID
func UploadReportImage(file *multipart.FileHeader) (string, string, error) {
	if msg := ValidateImageFile(file); msg != "" {
		return "", "", fmt.Errorf("%s", msg)
	}

	if cld == nil {
		if err := InitCloudinary(); err != nil {
			return "", "", err
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("erreur lors de l'ouverture du fichier: %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Public ID plat (pas de dossier) : il transite tel quel dans l'URL de suppression
	publicID := "uro_report_" + uuid.NewString()

	uploadResult, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{
		PublicID:       publicID,
		UseFilename:    boolPointer(false),
		UniqueFilename: boolPointer(false),
		Overwrite:      boolPointer(false),
		ResourceType:   "image",
	})
	if err != nil {
		return "", "", fmt.Errorf("erreur lors du téléchargement vers Cloudinary: %v", err)
	}

	if uploadResult.SecureURL == "" {
		if uploadResult.PublicID != "" {
			cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
			constructedURL := fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s",
				cloudName, uploadResult.PublicID)
			return constructedURL, uploadResult.PublicID, nil
		}
		return "", "", fmt.Errorf("URL sécurisée vide dans la réponse de Cloudinary")
	}

	return uploadResult.SecureURL, uploadResult.PublicID, nil
}

// DeleteReportImage supprime une image de Cloudinary par son public ID
func DeleteReportImage(publicID string) error {
	if cld == nil {
		if err := InitCloudinary(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression sur Cloudinary: %v", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("suppression Cloudinary refusée: %s", result.Result)
	}
	return nil
}
