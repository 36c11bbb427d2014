// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/templogger/internal/logger"
	"github.com/mia-platform/templogger/internal/sink"
)

const (
	statusOK = "OK"
	statusKO = "KO"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>{{ .Title }}</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
</head>
<body>
{{ .Panel }}
</body>
</html>
`))

type statusResponse struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

func statusRoutes(app *fiber.App, serviceName, serviceVersion string, page *logger.Context) {
	app.Get("/-/healthz", func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{
			Name:    serviceName,
			Status:  statusOK,
			Version: serviceVersion,
		})
	})

	app.Get("/-/ready", func(c *fiber.Ctx) error {
		response := statusResponse{
			Name:    serviceName,
			Status:  statusOK,
			Version: serviceVersion,
		}
		if _, ok := page.Panel(); !ok {
			response.Status = statusKO
			return c.Status(http.StatusServiceUnavailable).JSON(response)
		}
		return c.JSON(response)
	})
}

func pageRoutes(app *fiber.App, page *logger.Context) {
	app.Get("/", func(c *fiber.Ctx) error {
		panel, ok := page.Panel()
		if !ok {
			return fiber.NewError(http.StatusServiceUnavailable, "page panel not ready")
		}

		rendered := new(bytes.Buffer)
		if err := panel.Render(rendered, panelsPath); err != nil {
			return err
		}

		c.Type("html", "utf-8")
		return pageTemplate.Execute(c.Response().BodyWriter(), struct {
			Title string
			Panel template.HTML
		}{
			Title: page.Root().Name(),
			Panel: template.HTML(rendered.String()), //nolint:gosec // the panel template escapes every message
		})
	})

	app.Get(panelsPath, func(c *fiber.Ctx) error {
		panel, ok := page.Panel()
		if !ok {
			return c.JSON([]sink.Element{})
		}
		return c.JSON(panel.Elements())
	})

	app.Delete(panelsPath, func(c *fiber.Ctx) error {
		if !page.RemovePanel() {
			return fiber.NewError(http.StatusNotFound, "page panel not available")
		}
		return c.SendStatus(http.StatusNoContent)
	})

	app.Post(panelsPath+"/:id/dismiss", func(c *fiber.Ctx) error {
		panel, ok := page.Panel()
		if !ok {
			return fiber.NewError(http.StatusServiceUnavailable, "page panel not ready")
		}

		if err := panel.Dismiss(c.Params("id")); err != nil {
			if errors.Is(err, sink.ErrPanelNotFound) {
				return fiber.NewError(http.StatusNotFound, err.Error())
			}
			return err
		}
		return c.Redirect("/", http.StatusSeeOther)
	})
}
