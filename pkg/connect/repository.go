package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// decode unmarshals a success body into out. Single resources may arrive
// wrapped as {"data": {...}}; the wrapper is removed first.
func decode(res Resource, op string, resp *Response, out any) error {
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return observe(malformedResponse(res, op, resp.Status, errors.New("empty body")))
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if body[0] == '{' && json.Unmarshal(body, &env) == nil &&
		len(env.Data) > 0 && env.Data[0] == '{' {
		body = env.Data
	}

	if err := json.Unmarshal(body, out); err != nil {
		return observe(malformedResponse(res, op, resp.Status, err))
	}
	return nil
}

func errMissingField(name string) error {
	return fmt.Errorf("response has no %s", name)
}

func checkID(res Resource, op string, id int) error {
	if id <= 0 {
		return observe(invalidArgumentf(res, op, "id must be positive, got %d", id))
	}
	return nil
}

// getOne fetches a single resource.
func getOne[T any](ctx context.Context, c *Client, res Resource, op, path string) (*T, error) {
	resp, err := c.call(ctx, res, op, http.MethodGet, path, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	var out T
	if err := decode(res, op, resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// sendOne sends body and decodes a single resource from the reply.
func sendOne[T any](
	ctx context.Context,
	c *Client,
	res Resource,
	op, method, path string,
	body any,
) (*T, error) {
	resp, err := c.call(ctx, res, op, method, path, nil, nil, body)
	if err != nil {
		return nil, err
	}
	var out T
	if err := decode(res, op, resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// listPage validates opts and fetches one page of a list endpoint.
func listPage[T any](
	ctx context.Context,
	c *Client,
	res Resource,
	op, path string,
	opts QueryOptions,
) (*Page[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, observe(invalidArgument(res, op, err))
	}

	resp, err := c.call(ctx, res, op, http.MethodGet, path, opts.Query(), nil, nil)
	if err != nil {
		return nil, err
	}

	var page Page[T]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, observe(malformedResponse(res, op, resp.Status, err))
	}
	return &page, nil
}

// download fetches raw bytes without JSON handling.
func download(ctx context.Context, c *Client, res Resource, op, path, accept string) ([]byte, error) {
	resp, err := c.call(ctx, res, op, http.MethodGet, path, nil, map[string]string{"Accept": accept}, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// saveTo writes data to path, reporting failures as invalid arguments of
// the calling operation.
func saveTo(res Resource, op, path string, data []byte) error {
	if path == "" {
		return observe(invalidArgumentf(res, op, "destination path is required"))
	}
	if err := writeFileAtomic(path, data); err != nil {
		return observe(&Error{Kind: KindInvalidArgument, Resource: res, Op: op, Message: "saving file", Err: err})
	}
	return nil
}
