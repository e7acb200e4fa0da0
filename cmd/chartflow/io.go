package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readInput reads a JSON document from path, or from stdin when path is
// "-". An empty path yields nil.
func readInput(stdin io.Reader, path string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return nil, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("input %s is not valid JSON", path)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// callContext bounds ctx with the configured call timeout, if any.
func (a *app) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := a.cfg.GetCallTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
