// Package upload accepts user-selected files, assigns each a stable
// identifier and a displayable preview, and reports the resulting items to
// the session layer.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"outfit-studio-server/internal/domain"
	"outfit-studio-server/internal/imgutil"
	"outfit-studio-server/internal/payload"
)

// maxInlineBytes is the payload size above which inputs are recompressed
// before being held for upstream submission.
const maxInlineBytes = 4 << 20

// File is one incoming file handle from the presentation layer.
type File struct {
	Filename string
	Reader   io.Reader
	MIMEType string
}

// PreviewStore is the slice of the storage layer the intake needs to create
// and release preview handles.
type PreviewStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Remove(ctx context.Context, key string) error
}

// Intake turns raw file handles into owned UploadedItems.
type Intake struct {
	previews PreviewStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewIntake constructs an Intake backed by the given preview store.
func NewIntake(previews PreviewStore, logger zerolog.Logger) *Intake {
	return &Intake{previews: previews, logger: logger, now: time.Now}
}

// AddItems converts each input file into an UploadedItem, in input order.
// File type is not validated at this layer. Any unreadable file fails the
// whole batch with domain.ErrRead; previews created for earlier files in the
// failed batch are released again.
func (in *Intake) AddItems(ctx context.Context, files []File) ([]domain.UploadedItem, error) {
	items := make([]domain.UploadedItem, 0, len(files))
	for _, f := range files {
		item, err := in.intakeOne(ctx, f)
		if err != nil {
			for _, accepted := range items {
				in.Release(ctx, accepted)
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// SetSingleReference accepts the first file of the input as the new single
// reference image and ignores the rest of the list. The previous reference,
// if any, is released. An empty input returns nil without error.
func (in *Intake) SetSingleReference(ctx context.Context, previous *domain.UploadedItem, files []File) (*domain.UploadedItem, error) {
	if len(files) == 0 {
		return previous, nil
	}
	item, err := in.intakeOne(ctx, files[0])
	if err != nil {
		return previous, err
	}
	if previous != nil {
		in.Release(ctx, *previous)
	}
	if len(files) > 1 {
		in.logger.Debug().Int("ignored", len(files)-1).Msg("upload: extra reference files ignored")
	}
	return &item, nil
}

// Remove deletes the item with the matching ID from items and releases its
// preview. An absent ID is a no-op, not an error.
func (in *Intake) Remove(ctx context.Context, items []domain.UploadedItem, id string) []domain.UploadedItem {
	for i, item := range items {
		if item.ID == id {
			in.Release(ctx, item)
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

// Release frees the preview handle owned by item. Safe to call more than
// once for the same item.
func (in *Intake) Release(ctx context.Context, item domain.UploadedItem) {
	if item.PreviewKey == "" {
		return
	}
	if err := in.previews.Remove(ctx, item.PreviewKey); err != nil {
		in.logger.Warn().Err(err).Str("key", item.PreviewKey).Msg("upload: failed to release preview")
	}
}

func (in *Intake) intakeOne(ctx context.Context, f File) (domain.UploadedItem, error) {
	declared := f.MIMEType
	if declared == "" {
		declared = mime.TypeByExtension(filepath.Ext(f.Filename))
	}
	img, err := payload.EncodeFile(f.Reader, declared)
	if err != nil {
		return domain.UploadedItem{}, fmt.Errorf("%w (%s)", err, f.Filename)
	}
	img.Data, img.MIMEType = imgutil.ShrinkIfLarger(img.Data, img.MIMEType, maxInlineBytes)

	id := itemID(f.Filename, in.now())
	key, err := in.previews.Write(ctx, "previews/"+id+previewExt(img.MIMEType), img.Data)
	if err != nil {
		return domain.UploadedItem{}, fmt.Errorf("%w: store preview: %v", domain.ErrRead, err)
	}

	return domain.UploadedItem{
		ID:         id,
		Filename:   f.Filename,
		Data:       img.Data,
		MIMEType:   img.MIMEType,
		PreviewKey: key,
	}, nil
}

// itemID derives an identifier from the filename and submission time. The
// random suffix keeps IDs distinct even for identically named files submitted
// in the same instant.
func itemID(filename string, at time.Time) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s-%d-%s", base, at.UnixNano(), uuid.NewString()[:8])
}

func previewExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
