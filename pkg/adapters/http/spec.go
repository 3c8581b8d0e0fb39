package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiSpec []byte

// maxBodySize bounds every JSON request body.
const maxBodySize = 64 << 10

var (
	errEmptyBody   = errors.New("request body is required")
	errInvalidBody = errors.New("invalid request body")
)

func rawSpec() []byte {
	return openapiSpec
}

var loadSwagger = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
})

// GetSwagger returns the parsed and validated API description served at /openapi.yaml.
func GetSwagger() (*openapi3.T, error) {
	return loadSwagger()
}

// decodeBody reads a JSON body, checks it against the named component schema
// and decodes it into dst. An empty optional body leaves dst untouched.
func decodeBody(r *http.Request, schema string, required bool, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if len(data) > maxBodySize {
		return fmt.Errorf("%w: body exceeds %d bytes", errInvalidBody, maxBodySize)
	}
	if strings.TrimSpace(string(data)) == "" {
		if required {
			return errEmptyBody
		}
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	if ref, ok := doc.Components.Schemas[schema]; ok && ref.Value != nil {
		if err := ref.Value.VisitJSON(raw); err != nil {
			return fmt.Errorf("%w: %v", errInvalidBody, err)
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
