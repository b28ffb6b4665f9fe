package service

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/infrastructure/aws/storage"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

// uploadRules describes what a route accepts as a file.
type uploadRules struct {
	maxBytes   int64
	extensions []string
	mimeTypes  []string
}

type uploadedFile struct {
	data     []byte
	ext      string
	mimeType string
}

// readUpload checks the declared name and size, reads the content and sniffs
// its real type. The client Content-Type header is never trusted.
func readUpload(fileHeader *multipart.FileHeader, rules uploadRules) (*uploadedFile, apierror.ErrorResponse) {
	if fileHeader == nil {
		return nil, apierror.MissingFileError
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return nil, apierror.MissingFileNameError
	}

	if fileHeader.Size > rules.maxBytes {
		return nil, apierror.NewFileTooLargeError(rules.maxBytes)
	}

	ext, ok := utils.CheckFileExt(fileHeader.Filename, rules.extensions)
	if !ok {
		return nil, apierror.NewInvalidFileExtError(ext)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open uploaded file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	// Header sizes can lie, so never read more than the limit
	data, err := io.ReadAll(io.LimitReader(file, rules.maxBytes+1))
	if err != nil {
		log.Errorf("failed to read uploaded file: %v", err)
		return nil, apierror.InternalServerError
	}

	if int64(len(data)) > rules.maxBytes {
		return nil, apierror.NewFileTooLargeError(rules.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !mimeAllowed(mtype, rules.mimeTypes) {
		return nil, apierror.NewInvalidFileTypeError(mtype.String())
	}

	return &uploadedFile{data: data, ext: ext, mimeType: mtype.String()}, nil
}

func mimeAllowed(mtype *mimetype.MIME, allowed []string) bool {
	for _, m := range allowed {
		if mtype.Is(m) {
			return true
		}
	}
	return false
}

func storeUpload(ctx context.Context, s3 storage.S3Client, key string, file *uploadedFile) apierror.ErrorResponse {
	if err := s3.UploadFile(ctx, key, file.data, file.mimeType); err != nil {
		log.Errorf("failed to upload object %s: %v", key, err)
		return apierror.InternalServerError
	}
	return nil
}

// discardObject removes an object that is no longer referenced. Failures
// only leave an orphan behind, so they are logged and ignored.
func discardObject(s3 storage.S3Client, key string) {
	if key == "" {
		return
	}

	ctx, cancel := detached()
	defer cancel()

	if err := s3.DeleteFile(ctx, key); err != nil {
		log.Warnf("failed to delete orphan object %s: %v", key, err)
	}
}

func publicURL(s3 storage.S3Client, key string) string {
	if key == "" || s3 == nil {
		return ""
	}
	return s3.PublicURL(key)
}
