// Package printer es el puente con las impresoras del sistema operativo: descubrimiento,
// impresora predeterminada y envío de archivos, más el spool de archivos temporales.
package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Command es una invocación de programa como vector de argumentos. Los datos que vienen
// del usuario (nombre de impresora, ruta) viajan en Args o Env, nunca dentro de un script.
type Command struct {
	Name string
	Args []string
	Env  []string // KEY=VALUE adicionales
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner ejecuta comandos del sistema operativo.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner ejecuta con os/exec y un timeout por comando.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner crea un runner con el timeout indicado (30 s si es <= 0).
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExecRunner{Timeout: timeout}
}

// Run ejecuta el comando y devuelve stdout. Si falla, el error incluye stderr.
func (r *ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return stdout.Bytes(), fmt.Errorf("%s: timeout tras %s", c.Name, r.Timeout)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", c.Name, err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", c.Name, err)
	}
	return stdout.Bytes(), nil
}
