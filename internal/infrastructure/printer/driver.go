package printer

import (
	"context"
	"runtime"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Driver es lo que expone cada sistema operativo.
type Driver interface {
	Discover(ctx context.Context) ([]entity.Printer, error)
	Default(ctx context.Context) (*entity.Printer, error)
	PrintFile(ctx context.Context, printer, path string, copies int) error
}

var (
	_ Driver = (*WindowsDriver)(nil)
	_ Driver = (*UnixDriver)(nil)
)

// NewDriver elige el driver según el sistema operativo.
func NewDriver(run Runner, log *logger.Logger) Driver {
	return newDriverFor(runtime.GOOS, run, log)
}

func newDriverFor(goos string, run Runner, log *logger.Logger) Driver {
	if goos == "windows" {
		return NewWindowsDriver(run, log)
	}
	return NewUnixDriver(run, log)
}
