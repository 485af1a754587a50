package media

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/epccam/directory-api/internal/platform/logger"
	"github.com/epccam/directory-api/internal/redact"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // registers the webp decoder
)

// Sub-directories of the images tree.
const (
	AvatarsDir = "avatars"
	OthersDir  = "autres"
)

// ErrUnsupportedImage is returned when an upload is not a decodable image of
// a supported format.
var ErrUnsupportedImage = errors.New("unsupported image")

// Storage writes and removes image files below root.
type Storage struct {
	fs        afero.Fs
	root      string
	avatarMax int
	logger    *slog.Logger
}

// NewStorage creates a Storage rooted at root on fsys. avatarMax bounds both
// sides of avatar images.
func NewStorage(fsys afero.Fs, root string, avatarMax int, l *slog.Logger) *Storage {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if l == nil {
		l = slog.Default()
	}
	return &Storage{
		fs:        fsys,
		root:      root,
		avatarMax: avatarMax,
		logger:    l.With(slog.String("component", "media_storage")),
	}
}

// Root returns the directory served under /static.
func (s *Storage) Root() string {
	return s.root
}

// Stored describes a saved file.
type Stored struct {
	FileName string
	Dir      string
}

// Save decodes r as an image and writes it to the avatars or autres
// directory. Avatars larger than the configured bound are shrunk to fit,
// keeping their aspect ratio. Webp uploads are stored as png.
func (s *Storage) Save(ctx context.Context, r io.Reader, originalName string, avatar bool) (Stored, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == ".webp" {
		ext = ".png"
	}
	encode, ok := encoders[ext]
	if !ok {
		return Stored{}, fmt.Errorf("%w: extension %q", ErrUnsupportedImage, ext)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return Stored{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	dir := OthersDir
	if avatar {
		dir = AvatarsDir
		img = Thumbnail(img, s.avatarMax)
	}

	if err := s.fs.MkdirAll(s.dirPath(dir), 0o755); err != nil {
		return Stored{}, fmt.Errorf("create media directory: %w", err)
	}

	name := randomName() + ext
	filePath := filepath.Join(s.dirPath(dir), name)
	f, err := s.fs.Create(filePath)
	if err != nil {
		return Stored{}, fmt.Errorf("create media file: %w", err)
	}
	if err := encode(f, img); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(filePath)
		return Stored{}, fmt.Errorf("encode media file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(filePath)
		return Stored{}, fmt.Errorf("close media file: %w", err)
	}

	log.Info("media file saved",
		slog.String("file_name", name),
		slog.String("dir", dir),
		slog.String("source_format", format))
	return Stored{FileName: name, Dir: dir}, nil
}

// Remove deletes a stored file. A file already gone is logged and ignored.
func (s *Storage) Remove(ctx context.Context, fileName string, avatar bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dir := OthersDir
	if avatar {
		dir = AvatarsDir
	}
	// Names come from the database, but never let one escape the tree.
	name := filepath.Base(fileName)
	err := s.fs.Remove(filepath.Join(s.dirPath(dir), name))
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("media file already missing", slog.String("file_name", name), slog.String("dir", dir))
		return nil
	}
	if err != nil {
		log.Error("failed to remove media file", slog.String("error", redact.Error(err)))
		return fmt.Errorf("remove media file: %w", err)
	}
	log.Info("media file removed", slog.String("file_name", name), slog.String("dir", dir))
	return nil
}

// URL returns the public address of a stored file. baseURL is the request's
// scheme and host followed by a slash.
func URL(baseURL string, stored Stored) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + path.Join("static", "images", stored.Dir, stored.FileName)
}

func (s *Storage) dirPath(dir string) string {
	return filepath.Join(s.root, "images", dir)
}

// Thumbnail shrinks img to fit within bound x bound, keeping its aspect
// ratio. Images already within the bound, or a non-positive bound, are
// returned unchanged.
func Thumbnail(img image.Image, bound int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if bound <= 0 || (w <= bound && h <= bound) {
		return img
	}

	nw, nh := bound, bound
	if w > h {
		nh = h * bound / w
	} else {
		nw = w * bound / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

type encodeFunc func(w io.Writer, img image.Image) error

var encoders = map[string]encodeFunc{
	".png": png.Encode,
	".jpg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	},
	".jpeg": func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpeg.DefaultQuality})
	},
	".gif": func(w io.Writer, img image.Image) error {
		return gif.Encode(w, img, nil)
	},
	".bmp": bmp.Encode,
	".tif": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, nil)
	},
	".tiff": func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, nil)
	},
}

// randomName returns 16 hex characters.
func randomName() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
