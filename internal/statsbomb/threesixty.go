package statsbomb

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// frameSuffixes are tried in order after the path prefix and match id.
var frameSuffixes = []string{".json", ".json.gz", ".json.zst"}

// ReadFrames reads the 360 file for matchID from pathPrefix (e.g. "data/three-sixty/"),
// accepting plain, gzip or zstd encoded JSON. A missing file is an error.
func ReadFrames(pathPrefix string, matchID int) ([]Frame, error) {
	for _, suffix := range frameSuffixes {
		path := fmt.Sprintf("%s%d%s", pathPrefix, matchID, suffix)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open 360 file: %w", err)
		}
		defer f.Close()
		return decodeFrames(f, suffix)
	}
	return nil, fmt.Errorf("360 file for match %d not found under %q: %w", matchID, pathPrefix, fs.ErrNotExist)
}

// FramesExist reports whether any encoding of the 360 file for matchID is present.
func FramesExist(pathPrefix string, matchID int) bool {
	for _, suffix := range frameSuffixes {
		if _, err := os.Stat(fmt.Sprintf("%s%d%s", pathPrefix, matchID, suffix)); err == nil {
			return true
		}
	}
	return false
}

func decodeFrames(r io.Reader, suffix string) ([]Frame, error) {
	src := r
	switch suffix {
	case ".json.gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	case ".json.zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	var out []Frame
	if err := json.NewDecoder(src).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode 360 frames: %w", err)
	}
	return out, nil
}

// SaveFrames copies a raw 360 file to pathPrefix, zstd-compressed when compress
// is set. It writes to a temporary name first and returns the final path.
func SaveFrames(pathPrefix string, matchID int, r io.Reader, compress bool) (string, error) {
	suffix := ".json"
	if compress {
		suffix = ".json.zst"
	}
	path := fmt.Sprintf("%s%d%s", pathPrefix, matchID, suffix)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create 360 dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create 360 file: %w", err)
	}
	if err := copyFrames(f, r, compress); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close 360 file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("rename 360 file: %w", err)
	}
	return path, nil
}

func copyFrames(w io.Writer, r io.Reader, compress bool) error {
	if !compress {
		_, err := io.Copy(w, r)
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	if _, err := io.Copy(enc, r); err != nil {
		enc.Close()
		return fmt.Errorf("compress 360 file: %w", err)
	}
	return enc.Close()
}
