package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// ============================================================
// Proxy Handler
// ============================================================

// skipped response headers; fiber sets its own framing.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Content-Length":    true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
}

// Proxy forwards gateway requests to the converter service.
type Proxy struct {
	target string
	client *http.Client
	log    zerolog.Logger
}

func New(target string, timeout time.Duration, logger zerolog.Logger) *Proxy {
	return &Proxy{
		target: strings.TrimRight(target, "/"),
		client: &http.Client{Timeout: timeout},
		log:    logger.With().Str("component", "proxy").Str("target", target).Logger(),
	}
}

// To returns a handler forwarding to path on the upstream. Segments such as
// ":id" are filled from the route parameters and the query string is kept.
func (p *Proxy) To(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		url := p.target + resolvePath(c, path)
		if query := c.Request().URI().QueryString(); len(query) > 0 {
			url += "?" + string(query)
		}
		return p.forward(c, url)
	}
}

// Ping checks that the upstream answers its liveness probe.
func (p *Proxy) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target+"/health/live", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("reach converter: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("converter answered %d", resp.StatusCode)
	}
	return nil
}

func resolvePath(c fiber.Ctx, path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = c.Params(s[1:])
		}
	}
	return strings.Join(segments, "/")
}

// forward sends the request upstream, raw or multipart.
func (p *Proxy) forward(c fiber.Ctx, url string) error {
	contentType := c.Get(fiber.HeaderContentType)
	p.log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("content_type", contentType).
		Int("content_length", len(c.Body())).
		Str("upstream", url).
		Msg("forwarding request")

	body, contentType, err := requestBody(c, contentType)
	if err != nil {
		p.log.Warn().Err(err).Msg("invalid multipart data")
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart data"})
	}

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), url, body)
	if err != nil {
		p.log.Error().Err(err).Msg("build request")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if accept := c.Get(fiber.HeaderAccept); accept != "" {
		req.Header.Set(fiber.HeaderAccept, accept)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error().Err(err).Msg("upstream unreachable")
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach converter service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

// requestBody returns the body to send upstream. Multipart forms are
// re-encoded since fiber has already consumed the original stream.
func requestBody(c fiber.Ctx, contentType string) (io.Reader, string, error) {
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return bytes.NewReader(c.Body()), contentType, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			if err := copyFile(writer, key, fileHeader); err != nil {
				return nil, "", err
			}
		}
	}
	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", err
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func copyFile(writer *multipart.Writer, key string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fileHeader.Filename))
	if ct := fileHeader.Header.Get(fiber.HeaderContentType); ct != "" {
		h.Set(fiber.HeaderContentType, ct)
	}

	part, err := writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Error().Err(err).Msg("read upstream response")
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 && !hopHeaders[key] {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
