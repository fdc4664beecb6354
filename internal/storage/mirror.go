package storage

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
)

// maxImageSize caps downloaded artwork at 10 MB.
const maxImageSize = 10 << 20

// Mirror copies referenced artwork into the object store so the catalog
// keeps working when upstream image hosts disappear.
type Mirror struct {
	meta       *db.MetaDAO
	store      Client
	httpClient *http.Client
}

// NewMirror wires a mirror on top of an opened catalog database.
func NewMirror(database *sql.DB, store Client) *Mirror {
	return &Mirror{
		meta:  db.NewMetaDAO(database),
		store: store,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Run uploads every not-yet-mirrored artwork ref and records the mirror
// URL. Failing downloads are logged and skipped so one dead host does
// not stall the pass. Returns the number of uploads.
func (m *Mirror) Run(ctx context.Context, progress model.ProgressFunc) (int64, error) {
	refs, err := m.meta.ListUnmirroredArtwork(ctx)
	if err != nil {
		return 0, err
	}
	logger := logutil.GetLogger(ctx)
	logger.Info("start artwork mirror", zap.Int("pending", len(refs)))

	var uploaded int64
	for idx, art := range refs {
		if err := ctx.Err(); err != nil {
			return uploaded, err
		}
		progress.Report(model.ScanProgress{
			Total:       int64(len(refs)),
			Current:     int64(idx + 1),
			CurrentItem: art.URL,
		})

		mirrorURL, err := m.mirrorOne(ctx, art)
		if err != nil {
			logger.Warn("mirror artwork failed", zap.Int64("rom_id", art.RomID),
				zap.String("url", art.URL), zap.Error(err))
			continue
		}
		if err := m.meta.SetArtworkMirror(ctx, art, mirrorURL); err != nil {
			return uploaded, err
		}
		uploaded++
	}
	logger.Info("artwork mirror finished", zap.Int64("uploaded", uploaded))
	return uploaded, nil
}

func (m *Mirror) mirrorOne(ctx context.Context, art model.Artwork) (string, error) {
	data, contentType, err := m.download(ctx, art.URL)
	if err != nil {
		return "", err
	}
	key := objectKey(art, contentType)
	if err := m.store.UploadBytes(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return m.store.ObjectURL(key), nil
}

func (m *Mirror) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("download %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxImageSize {
		return nil, "", fmt.Errorf("download %s: %d bytes exceeds limit", rawURL, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("download %s: body exceeds limit", rawURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

// objectKey derives a stable bucket key from the ref, so re-runs
// overwrite instead of duplicating.
func objectKey(art model.Artwork, contentType string) string {
	sum := sha1.Sum([]byte(art.URL))
	return fmt.Sprintf("artwork/%d/%s/%x%s", art.RomID, art.ArtType, sum[:8], extensionFor(art.URL, contentType))
}

func extensionFor(rawURL, contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/jpeg":
		return ".jpg"
	}
	if u, err := url.Parse(rawURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	return ".img"
}
