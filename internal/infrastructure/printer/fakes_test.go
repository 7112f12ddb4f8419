package printer

import (
	"context"
	"errors"
	"strings"
	"sync"
)

type fakeResult struct {
	out []byte
	err error
}

// fakeRunner responde según el primer argumento que contenga cada clave.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]fakeResult
	calls   []Command
	// script, si está definido, decide la respuesta según el número de llamada.
	script func(call int, c Command) ([]byte, error)
}

func newFakeRunner() *fakeRunner { return &fakeRunner{results: map[string]fakeResult{}} }

func (f *fakeRunner) on(key string, out string, err error) {
	f.results[key] = fakeResult{out: []byte(out), err: err}
}

func (f *fakeRunner) Run(_ context.Context, c Command) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.script != nil {
		return f.script(len(f.calls)-1, c)
	}
	line := c.String()
	for key, r := range f.results {
		if strings.Contains(line, key) {
			return r.out, r.err
		}
	}
	return nil, errors.New("comando no esperado: " + line)
}
