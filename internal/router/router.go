// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain of the menu
// API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"menuboard/internal/handlers"
	"menuboard/internal/middleware"
)

// New creates the chi router. importLimiter, when non-nil, throttles the
// bulk import endpoint.
func New(menus *handlers.Menus, imports *handlers.Imports, importLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/import/{kind}/template", imports.Template)

		r.Route("/stores/{store}", func(r chi.Router) {
			r.Get("/", menus.Store)
			r.Get("/qr", menus.QRCode)
			r.Get("/menus", menus.ListMenus)

			// Calendar and grid projections
			r.Get("/calendar", menus.Calendar)
			r.Get("/calendar/{date}", menus.CalendarDay)
			r.Get("/weekly-grid", menus.WeeklyGrid)

			r.Route("/daily-menus", func(r chi.Router) {
				r.Get("/", menus.ListDaily)
				r.Post("/", menus.CreateDaily)
				r.Put("/{id}", menus.UpdateDaily)
				r.Put("/{id}/pin", menus.PinDaily)
				r.Delete("/{id}", menus.DeleteDaily)
			})

			r.Route("/weekly-menus", func(r chi.Router) {
				r.Get("/", menus.ListWeekly)
				r.Post("/", menus.CreateWeekly)
				r.Delete("/{id}", menus.DeleteWeekly)
			})

			r.Route("/monthly-menus", func(r chi.Router) {
				r.Get("/", menus.ListMonthly)
				r.Post("/", menus.CreateMonthly)
				r.Delete("/{id}", menus.DeleteMonthly)
			})

			r.Group(func(r chi.Router) {
				if importLimiter != nil {
					r.Use(importLimiter.Middleware)
				}
				r.Post("/import/{kind}", imports.Import)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
