package printer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/pkg/logger"
)

const spoolPrefix = "almacen-"

// DirSpool guarda los archivos a imprimir en un directorio propio.
type DirSpool struct {
	dir string
	log *logger.Logger
}

// NewDirSpool crea (si hace falta) el directorio de spool.
func NewDirSpool(dir string, log *logger.Logger) (*DirSpool, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("spool: crear %s: %w", dir, err)
	}
	return &DirSpool{dir: dir, log: log.Component("spool")}, nil
}

// Dir devuelve el directorio de spool.
func (s *DirSpool) Dir() string { return s.dir }

// Write crea un archivo único que termina en name (conserva la extensión para el shell).
func (s *DirSpool) Write(name string, data []byte) (string, error) {
	name = filepath.Base(name)
	f, err := os.CreateTemp(s.dir, spoolPrefix+"*-"+name)
	if err != nil {
		return "", fmt.Errorf("spool: crear archivo: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("spool: escribir: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("spool: cerrar: %w", err)
	}
	return f.Name(), nil
}

// Remove borra un archivo del spool; si ya no existe no hace nada.
func (s *DirSpool) Remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", path).Msg("no se pudo borrar archivo de spool")
	}
}

// Purge borra archivos huérfanos (caída a mitad de una impresión) más viejos que olderThan.
func (s *DirSpool) Purge(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("spool: listar: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), spoolPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			n++
		}
	}
	return n, nil
}
