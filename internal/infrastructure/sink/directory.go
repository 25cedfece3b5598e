package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"retro-booth/internal/domain/port"
)

// ErrUnsafeName - имя сессии или файла не годится как элемент пути.
var ErrUnsafeName = errors.New("unsafe path element")

// Directory складывает фотополоски в каталог на диске.
type Directory struct {
	root string
}

// NewDirectory создаёт каталог, если его ещё нет.
func NewDirectory(root string) (*Directory, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Directory{root: root}, nil
}

// Deliver пишет файл в подкаталог сессии.
func (d *Directory) Deliver(ctx context.Context, sessionID, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := checkName(sessionID); err != nil {
		return fmt.Errorf("session %q: %w", sessionID, err)
	}
	if err := checkName(filename); err != nil {
		return fmt.Errorf("file %q: %w", filename, err)
	}

	dir := filepath.Join(d.root, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write strip: %w", err)
	}
	return nil
}

// checkName пропускает только одиночный элемент пути внутри каталога.
func checkName(name string) error {
	switch name {
	case "", ".", "..":
		return ErrUnsafeName
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return ErrUnsafeName
	}
	return nil
}

var _ port.DownloadSink = (*Directory)(nil)
