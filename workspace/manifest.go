package workspace

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

var digestKey = []byte("sagaloc-manifest-digest-key-0001")

// Digest returns content digest
func Digest(data []byte) (string, error) {
	hash, err := highwayhash.New64(digestKey)
	if err != nil {
		return "", err
	}
	if _, err = hash.Write(data); err != nil {
		return "", err
	}
	return strconv.FormatUint(hash.Sum64(), 16), nil
}

// Entry represents digests of the last annotated input and the output written for it
type Entry struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Manifest records processed files, so that unchanged files are not annotated twice
type Manifest struct {
	Options string            `yaml:"options"`
	Files   map[string]*Entry `yaml:"files"`
}

// Unchanged returns true if content digest matches the recorded input, or the recorded output for in place annotation
func (m *Manifest) Unchanged(path, digest, options string) bool {
	if m.Options != options {
		return false
	}
	entry, ok := m.Files[path]
	if !ok {
		return false
	}
	return entry.Input == digest || entry.Output == digest
}

// Put records file digests
func (m *Manifest) Put(path string, entry *Entry) {
	if m.Files == nil {
		m.Files = map[string]*Entry{}
	}
	m.Files[path] = entry
}

func loadManifest(ctx context.Context, fs afs.Service, URL string) (*Manifest, error) {
	ret := &Manifest{Files: map[string]*Entry{}}
	exists, err := fs.Exists(ctx, URL)
	if err != nil || !exists {
		return ret, err
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", URL, err)
	}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", URL, err)
	}
	if ret.Files == nil {
		ret.Files = map[string]*Entry{}
	}
	return ret, nil
}

func (m *Manifest) store(ctx context.Context, fs afs.Service, URL string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	if err = fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", URL, err)
	}
	return nil
}
