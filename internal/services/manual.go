package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/data/repos"
	types "github.com/yungbote/aiclub-backend/internal/domain"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/dbctx"
	"github.com/yungbote/aiclub-backend/internal/platform/gcp"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

const MaxManualBytes = 50 << 20

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var manualContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type ManualUpload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

type ManualService interface {
	Upload(ctx context.Context, in ManualUpload) (*types.Manual, error)
	List(ctx context.Context) ([]*types.Manual, error)
	Latest(ctx context.Context) (*types.Manual, error)
	// Open returns the object stream for a manual the caller may view. Club admins only see the latest version.
	Open(ctx context.Context, id uuid.UUID) (*types.Manual, io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type manualService struct {
	log        *logger.Logger
	tx         aggregates.TxRunner
	manualRepo repos.ManualRepo
	bucket     gcp.BucketService
}

func NewManualService(log *logger.Logger, tx aggregates.TxRunner, manualRepo repos.ManualRepo, bucket gcp.BucketService) ManualService {
	return &manualService{
		log:        log.With("service", "ManualService"),
		tx:         tx,
		manualRepo: manualRepo,
		bucket:     bucket,
	}
}

var (
	errManualNotFound    = apierr.NotFound("manual_not_found", "manual not found")
	errFileTooLarge      = apierr.Newf(http.StatusRequestEntityTooLarge, "file_too_large", "manual must be at most %d MiB", MaxManualBytes>>20)
	errUnsupportedManual = apierr.Newf(http.StatusUnsupportedMediaType, "unsupported_file_type", "manual must be a .pdf, .doc or .docx file")
)

func fileURL(m *types.Manual) *types.Manual {
	if m != nil {
		m.FileURL = "/api/manuals/view/" + m.ID.String()
	}
	return m
}

// sniffManual checks the leading bytes against the extension.
func sniffManual(ext string, head []byte) bool {
	switch ext {
	case ".pdf":
		return http.DetectContentType(head) == "application/pdf"
	case ".docx":
		return http.DetectContentType(head) == "application/zip"
	case ".doc":
		return bytes.HasPrefix(head, oleMagic)
	}
	return false
}

func (s *manualService) Upload(ctx context.Context, in ManualUpload) (*types.Manual, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, err
	}
	if in.Size > MaxManualBytes {
		return nil, errFileTooLarge
	}
	name := filepath.Base(strings.TrimSpace(in.FileName))
	ext := strings.ToLower(filepath.Ext(name))
	contentType, ok := manualContentTypes[ext]
	if !ok || in.Body == nil {
		return nil, errUnsupportedManual
	}

	br := bufio.NewReaderSize(in.Body, 512)
	head, _ := br.Peek(512)
	if !sniffManual(ext, head) {
		return nil, errUnsupportedManual
	}
	// Size may be unknown or understated by the client.
	body := &countingReader{r: io.LimitReader(br, MaxManualBytes+1)}

	m := &types.Manual{
		ID:          uuid.New(),
		FileName:    name,
		ContentType: contentType,
		UploadedBy:  &rd.UserID,
	}
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		version, err := s.manualRepo.NextVersion(dbc)
		if err != nil {
			return fmt.Errorf("reserve manual version: %w", err)
		}
		m.Version = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.StorageKey = fmt.Sprintf("manuals/v%d/%s%s", m.Version, uuid.NewString(), ext)

	// The object is streamed with no transaction open; a failed insert removes it again.
	if err := s.bucket.UploadFile(ctx, gcp.BucketCategoryManual, m.StorageKey, body, contentType); err != nil {
		return nil, fmt.Errorf("upload manual: %w", err)
	}
	err = s.insertManual(ctx, m, body.n)
	if err != nil {
		if derr := s.bucket.DeleteFile(context.WithoutCancel(ctx), gcp.BucketCategoryManual, m.StorageKey); derr != nil {
			s.log.Warn("Failed to remove orphaned manual object", "key", m.StorageKey, "error", derr)
		}
		return nil, err
	}
	s.log.Info("Manual uploaded", "manual_id", m.ID, "version", m.Version, "size_bytes", m.SizeBytes, "uploaded_by", rd.UserID)
	return fileURL(m), nil
}

func (s *manualService) insertManual(ctx context.Context, m *types.Manual, n int64) error {
	if n > MaxManualBytes {
		return errFileTooLarge
	}
	m.SizeBytes = n
	return s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.manualRepo.Create(dbc, m); err != nil {
			if aggregates.IsUniqueViolation(err) {
				return apierr.Conflict("version_conflict", "another manual upload finished first, please retry")
			}
			return fmt.Errorf("create manual: %w", err)
		}
		return nil
	})
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (s *manualService) List(ctx context.Context) ([]*types.Manual, error) {
	out, err := s.manualRepo.List(dbctx.From(ctx))
	if err != nil {
		return nil, fmt.Errorf("list manuals: %w", err)
	}
	for _, m := range out {
		fileURL(m)
	}
	return out, nil
}

func (s *manualService) Latest(ctx context.Context) (*types.Manual, error) {
	m, err := s.manualRepo.GetLatest(dbctx.From(ctx))
	if err != nil {
		return nil, fmt.Errorf("load latest manual: %w", err)
	}
	if m == nil {
		return nil, apierr.NotFound("no_manual", "no manual has been uploaded yet")
	}
	return fileURL(m), nil
}

func (s *manualService) Open(ctx context.Context, id uuid.UUID) (*types.Manual, io.ReadCloser, error) {
	rd, err := requestData(ctx)
	if err != nil {
		return nil, nil, err
	}
	dbc := dbctx.From(ctx)
	m, err := s.manualRepo.GetByID(dbc, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load manual: %w", err)
	}
	if m == nil {
		return nil, nil, errManualNotFound
	}
	switch rd.Role {
	case types.RoleSuperAdmin:
	case types.RoleAdmin:
		latest, err := s.manualRepo.GetLatest(dbc)
		if err != nil {
			return nil, nil, fmt.Errorf("load latest manual: %w", err)
		}
		if latest == nil || latest.ID != m.ID {
			return nil, nil, apierr.Forbidden("manual_superseded", "only the latest manual can be viewed")
		}
	default:
		return nil, nil, apierr.Forbidden("forbidden", "insufficient role")
	}

	rc, _, err := s.bucket.OpenFile(ctx, gcp.BucketCategoryManual, m.StorageKey)
	if err != nil {
		if errors.Is(err, gcp.ErrObjectNotFound) {
			return nil, nil, errManualNotFound
		}
		return nil, nil, fmt.Errorf("open manual: %w", err)
	}
	return fileURL(m), rc, nil
}

func (s *manualService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.From(ctx)
	m, err := s.manualRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load manual: %w", err)
	}
	if m == nil {
		return errManualNotFound
	}
	if err := s.manualRepo.Delete(dbc, id); err != nil {
		return fmt.Errorf("delete manual: %w", err)
	}
	if err := s.bucket.DeleteFile(ctx, gcp.BucketCategoryManual, m.StorageKey); err != nil {
		s.log.Warn("Manual row deleted but object removal failed", "manual_id", id, "key", m.StorageKey, "error", err)
	}
	s.log.Info("Manual deleted", "manual_id", id, "version", m.Version)
	return nil
}
