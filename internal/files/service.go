package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/storage/gcs"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 20 << 20

// UploadInput describes one document being staged for a submission.
type UploadInput struct {
	RequestID   uuid.UUID
	FileType    string
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Service stages supplier documents in object storage. The returned metadata
// is handed to a submission, which records it alongside the status change.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (lifecycle.FileMeta, error)
}

type service struct {
	uploader gcs.Uploader
	newID    func() uuid.UUID
}

// Params wires the files service dependencies.
type Params struct {
	Uploader gcs.Uploader
	NewID    func() uuid.UUID
}

// NewService builds the files service.
func NewService(params Params) (Service, error) {
	if params.Uploader == nil {
		return nil, errors.New("storage uploader is required")
	}
	newID := params.NewID
	if newID == nil {
		newID = uuid.New
	}
	return &service{uploader: params.Uploader, newID: newID}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (lifecycle.FileMeta, error) {
	if input.RequestID == uuid.Nil {
		return lifecycle.FileMeta{}, apperrors.New(apperrors.CodeValidation, "request id is required")
	}
	fileType, err := enums.ParseFileType(input.FileType)
	if err != nil {
		return lifecycle.FileMeta{}, apperrors.Wrap(apperrors.CodeValidation, err, "invalid file type")
	}
	fileName := sanitizeFileName(input.FileName)
	if fileName == "" {
		return lifecycle.FileMeta{}, apperrors.New(apperrors.CodeMissingField, "file name is required").
			WithDetails(map[string]any{"field": "fileName"})
	}
	if input.Size > maxUploadBytes {
		return lifecycle.FileMeta{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d MB limit", maxUploadBytes>>20))
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Object names are keyed by request so a bucket listing groups the
	// documents of one case together.
	objectName := fmt.Sprintf("requests/%s/%s-%s", input.RequestID, s.newID(), fileName)

	body := io.LimitReader(input.Body, maxUploadBytes)
	storagePath, err := s.uploader.Upload(ctx, objectName, contentType, body)
	if err != nil {
		return lifecycle.FileMeta{}, apperrors.Wrap(apperrors.CodeDependency, err, "storing document failed")
	}

	return lifecycle.FileMeta{
		FileType:    fileType,
		FileName:    fileName,
		StoragePath: storagePath,
	}, nil
}

// sanitizeFileName strips any path components and control characters so the
// client-supplied name cannot escape the request's object prefix.
func sanitizeFileName(raw string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
