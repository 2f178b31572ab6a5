package routes

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachLogBack/internal/config"
	"gopkg.in/yaml.v2"
)

//go:embed openapi.yaml
var openAPISpec []byte

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body { margin: 0; font-family: Georgia, "Times New Roman", serif; background: #f6f7f4; color: #132019; }
    main { max-width: 1120px; margin: 0 auto; padding: 48px 20px 64px; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; background: #fff; }
    th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #d8ddd6; }
    pre { padding: 20px; overflow: auto; border-radius: 14px; background: #0f172a; color: #e2e8f0; }
  </style>
</head>
<body>
  <main>
    <h1>{{ .Title }}</h1>
    <p>Version {{ .Version }}. Raw spec at <a href="/docs/openapi.yaml">/docs/openapi.yaml</a>. Loaded {{ .LoadedAt }}.</p>
    <table>
      <tr><th>Method</th><th>Path</th><th>Summary</th></tr>
      {{ range .Operations }}<tr><td>{{ .Method }}</td><td>{{ .Path }}</td><td>{{ .Summary }}</td></tr>
      {{ end }}
    </table>
    <pre>{{ .Spec }}</pre>
  </main>
</body>
</html>
`

type openAPIDocument struct {
	OpenAPI string `yaml:"openapi"`
	Info    struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths yaml.MapSlice `yaml:"paths"`
}

type docsOperation struct {
	Method  string
	Path    string
	Summary string
}

type docsPageData struct {
	Title      string
	Version    string
	LoadedAt   string
	Operations []docsOperation
	Spec       string
}

// parseOpenAPISpec checks the embedded document and lists its operations in
// file order.
func parseOpenAPISpec(spec []byte) (*openAPIDocument, []docsOperation, error) {
	var doc openAPIDocument
	if err := yaml.Unmarshal(spec, &doc); err != nil {
		return nil, nil, err
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, nil, fmt.Errorf("unsupported openapi version %q", doc.OpenAPI)
	}
	if doc.Info.Title == "" || len(doc.Paths) == 0 {
		return nil, nil, fmt.Errorf("openapi document needs a title and at least one path")
	}

	operations := make([]docsOperation, 0)
	for _, pathItem := range doc.Paths {
		path, _ := pathItem.Key.(string)
		methods, ok := pathItem.Value.(yaml.MapSlice)
		if !ok {
			return nil, nil, fmt.Errorf("path %q has no operations", path)
		}
		for _, method := range methods {
			name, _ := method.Key.(string)
			op := docsOperation{Method: strings.ToUpper(name), Path: path}
			if fields, ok := method.Value.(yaml.MapSlice); ok {
				for _, field := range fields {
					if field.Key == "summary" {
						op.Summary, _ = field.Value.(string)
					}
				}
			}
			operations = append(operations, op)
		}
	}

	return &doc, operations, nil
}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	doc, operations, err := parseOpenAPISpec(openAPISpec)
	if err != nil {
		return fmt.Errorf("load openapi spec: %w", err)
	}

	indexTemplate, err := template.New("docs-index").Parse(docsIndexHTML)
	if err != nil {
		return fmt.Errorf("parse docs template: %w", err)
	}

	pageData := docsPageData{
		Title:      doc.Info.Title + " Docs",
		Version:    doc.Info.Version,
		LoadedAt:   time.Now().UTC().Format(time.RFC3339),
		Operations: operations,
		Spec:       string(openAPISpec),
	}

	indexHandler := func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; img-src 'self' data:; base-uri 'none'; form-action 'none'; frame-ancestors 'none'")

		var body bytes.Buffer
		if err := indexTemplate.Execute(&body, pageData); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render api docs")
		}

		return c.Status(fiber.StatusOK).Send(body.Bytes())
	}

	app.Get("/docs", indexHandler)
	app.Get("/docs/", indexHandler)
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Status(fiber.StatusOK).Send(openAPISpec)
	})

	return nil
}

func applyDocsBaseHeaders(c *fiber.Ctx, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("Cross-Origin-Resource-Policy", "same-origin")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}
