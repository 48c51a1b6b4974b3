package processor

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// sourceName returns the file name of a local path or URL.
func sourceName(source string) string {
	if isRemote(source) {
		if u, err := url.Parse(source); err == nil {
			return path.Base(u.Path)
		}
	}
	return filepath.Base(source)
}

// loadSource reads a local file or downloads a URL. The returned name is the
// file name used to pick the input format.
func loadSource(client *http.Client, source string) ([]byte, string, error) {
	name := sourceName(source)

	if !isRemote(source) {
		data, err := os.ReadFile(source)
		return data, name, err
	}

	log.Debug().Str("url", source).Msg("Downloading source file")
	resp, err := client.Get(source)
	if err != nil {
		return nil, name, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, name, fmt.Errorf("download %s failed: status %d", source, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, name, err
	}

	return data, name, nil
}
