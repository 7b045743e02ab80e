package workspace

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/sagaloc/location"
)

var sourceMappingURLExpr = regexp.MustCompile(`(?m)^[ \t]*//[#@][ \t]*sourceMappingURL=(\S+)[ \t]*$`)

// sourceMappingURL returns the last sourceMappingURL comment reference
func sourceMappingURL(src []byte) string {
	matches := sourceMappingURLExpr.FindAllSubmatch(src, -1)
	if len(matches) == 0 {
		return ""
	}
	return string(matches[len(matches)-1][1])
}

// inputSourceMap returns source map for the file at baseURL/relPath and its reference; a sibling .map file
// is used when source does not reference any
func (s *Service) inputSourceMap(ctx context.Context, baseURL, relPath string, src []byte) ([]byte, string, error) {
	if !s.sourceMaps {
		return nil, "", nil
	}
	ref := sourceMappingURL(src)
	if ref == "" {
		sibling := url.Join(baseURL, relPath+".map")
		exists, err := s.fs.Exists(ctx, sibling)
		if err != nil || !exists {
			return nil, "", err
		}
		data, err := s.fs.DownloadWithURL(ctx, sibling)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read source map %s: %w", sibling, err)
		}
		return data, path.Base(relPath) + ".map", nil
	}
	if location.IsDataURL(ref) {
		data, err := location.DecodeInline(ref)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", relPath, err)
		}
		return data, "inline", nil
	}
	mapURL := ref
	if !strings.Contains(ref, "://") {
		if strings.HasPrefix(ref, "/") {
			mapURL = url.Join(baseURL, ref)
		} else {
			mapURL = url.Join(baseURL, path.Join(path.Dir(relPath), ref))
		}
	}
	data, err := s.fs.DownloadWithURL(ctx, mapURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read source map %s referenced by %s: %w", mapURL, relPath, err)
	}
	return data, ref, nil
}
