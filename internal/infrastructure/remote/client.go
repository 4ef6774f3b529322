// Package remote implementa RemoteGateway contra el backend REST que persiste pedidos y letras.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	pkgjwt "github.com/jhoicas/Pedidos-api/pkg/jwt"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa RemoteGateway.
var _ ports.RemoteGateway = (*Client)(nil)

// maxBody límite de lectura de respuestas.
const maxBody = 4 << 20

// Config parámetros del adaptador REST.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Token de servicio; con Secret vacío no se envía Authorization.
	TokenSecret     string
	TokenIssuer     string
	TokenExpiration int
	Service         string
}

// Client adaptador REST. Usa net/http de la librería estándar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger

	tokenMu sync.Mutex
	tokens  *pkgjwt.TokenSource
}

// NewClient construye el adaptador.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("remote"),
	}
	if cfg.TokenSecret != "" {
		c.tokens = &pkgjwt.TokenSource{
			Secret:     cfg.TokenSecret,
			Service:    cfg.Service,
			Issuer:     cfg.TokenIssuer,
			ExpMinutes: cfg.TokenExpiration,
		}
	}
	return c
}

// do envía la petición y decodifica la respuesta en out (si no es nil). Cualquier falla se
// devuelve como *domain.RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &domain.RemoteError{Op: op, Err: fmt.Errorf("serializar request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: fmt.Errorf("crear HTTP request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		c.tokenMu.Lock()
		tok, err := c.tokens.Token()
		c.tokenMu.Unlock()
		if err != nil {
			return &domain.RemoteError{Op: op, Err: fmt.Errorf("token de servicio: %w", err)}
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &domain.RemoteError{Op: op, Err: fmt.Errorf("timeout o cancelación: %w", ctx.Err())}
		}
		return &domain.RemoteError{Op: op, Err: fmt.Errorf("llamada HTTP fallida: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("leer respuesta: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: errors.New(errorMessage(raw))}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("deserializar respuesta: %w", err)}
	}
	return nil
}

// record objeto JSON genérico; los nombres de campo varían según el endpoint.
type record = map[string]any

// list trae un listado tolerando un arreglo o {"results": [...]}. Cualquier otra forma se
// registra y devuelve una lista vacía.
func (c *Client) list(ctx context.Context, op, path string) ([]record, error) {
	var raw any
	if err := c.do(ctx, op, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	items, ok := asList(raw)
	if !ok {
		c.log.Warn().Str("op", op).Str("path", path).Msg("respuesta de listado con forma inesperada; se usa lista vacía")
		return nil, nil
	}
	return items, nil
}

func asList(raw any) ([]record, bool) {
	var arr []any
	switch v := raw.(type) {
	case []any:
		arr = v
	case map[string]any:
		res, ok := v["results"].([]any)
		if !ok {
			return nil, false
		}
		arr = res
	default:
		return nil, false
	}
	out := make([]record, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

// errorMessage extrae el mensaje de error del cuerpo (detail, message, error) o lo recorta.
func errorMessage(raw []byte) string {
	var m map[string]any
	if json.Unmarshal(raw, &m) == nil {
		for _, k := range []string{"detail", "message", "error"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		s = "respuesta vacía"
	}
	return s
}
