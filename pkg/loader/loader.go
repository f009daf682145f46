package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/menta2k/photo-screener/internal/utils"
	"github.com/menta2k/photo-screener/pkg/types"
)

// personSubdir is the fixed subdirectory of the photos directory that holds
// the profile photos to screen.
const personSubdir = "person"

// duplicateMarker flags photos already identified as duplicates; they are
// skipped for cleaner analysis.
const duplicateMarker = "_DUPLICATE"

// Options controls optional re-encoding of photos before submission.
// MaxDim 0 sends the original file bytes untouched.
type Options struct {
	MaxDim  int
	Quality int
}

// Loader reads and encodes the qualifying photos from a directory.
type Loader struct {
	opts Options
	log  zerolog.Logger
}

// New creates a Loader that submits photos as-is.
func New(log zerolog.Logger) *Loader {
	return NewWithOptions(log, Options{})
}

// NewWithOptions creates a Loader with transport re-encoding options.
func NewWithOptions(log zerolog.Logger, opts Options) *Loader {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 85
	}
	return &Loader{
		opts: opts,
		log:  log.With().Str("component", "loader").Logger(),
	}
}

// LoadPhotos returns the encoded photo records for every qualifying file
// directly under the person subdirectory, in filename order. A missing
// subdirectory yields an empty result, not an error, and a single unreadable
// file never aborts the batch. No file is ever modified.
func (l *Loader) LoadPhotos(photosDir string) []types.Photo {
	personDir := filepath.Join(photosDir, personSubdir)
	if !utils.DirExists(personDir) {
		l.log.Warn().Str("dir", personDir).Msg("person folder not found")
		return nil
	}

	entries, err := os.ReadDir(personDir)
	if err != nil {
		l.log.Warn().Err(err).Str("dir", personDir).Msg("failed to read person folder")
		return nil
	}

	var photos []types.Photo
	for _, entry := range entries {
		if entry.IsDir() || !utils.IsImageFile(entry.Name()) {
			continue
		}
		if strings.Contains(entry.Name(), duplicateMarker) {
			continue
		}

		path := filepath.Join(personDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			l.log.Warn().Err(err).Str("file", entry.Name()).Msg("failed to load photo, skipping")
			continue
		}

		photos = append(photos, types.Photo{
			Filename:  entry.Name(),
			Path:      path,
			Base64:    l.encodeForTransport(path, data),
			SizeBytes: int64(len(data)),
		})
		l.log.Info().
			Str("file", entry.Name()).
			Str("size", utils.FormatFileSize(int64(len(data)))).
			Msg("loaded photo")
	}

	l.log.Info().Int("count", len(photos)).Msg("photos loaded for analysis")
	return photos
}
