package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
)

// PublicImagePrefix est le préfixe public des images servies en local
const PublicImagePrefix = "/images/"

// StoredImage est un fichier présent dans le stockage d'images
type StoredImage struct {
	Name    string
	ModTime time.Time
}

// ImageBackend est l'endroit où les images acceptées sont écrites
type ImageBackend interface {
	// Put écrit l'image de façon atomique et renvoie sa référence publique
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]StoredImage, error)
	// NameFromRef renvoie le nom stocké si ref désigne une image de ce backend
	NameFromRef(ref string) (string, bool)
}

// LocalBackend écrit les images dans un répertoire servi sous /images/
type LocalBackend struct {
	dir string
}

func NewLocalBackend(dir string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("création du répertoire d'images: %w", err)
	}
	return &LocalBackend{dir: dir}, nil
}

func (b *LocalBackend) Dir() string { return b.dir }

func (b *LocalBackend) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := renameio.WriteFile(filepath.Join(b.dir, name), data, 0o644, renameio.WithTempDir(b.dir)); err != nil {
		return "", fmt.Errorf("écriture de l'image: %w", err)
	}
	return PublicImagePrefix + name, nil
}

func (b *LocalBackend) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(b.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List ignore les sous-répertoires, les fichiers cachés et les temporaires
func (b *LocalBackend) List(_ context.Context) ([]StoredImage, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	out := make([]StoredImage, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, StoredImage{Name: e.Name(), ModTime: info.ModTime()})
	}
	return out, nil
}

func (b *LocalBackend) NameFromRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, PublicImagePrefix) {
		return "", false
	}
	name := path.Base(ref)
	return name, name != "" && name != "." && name != "/"
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("nom d'image invalide: %q", name)
	}
	return nil
}
