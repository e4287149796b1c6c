// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"menuboard/internal/models"
)

// QR image bounds, in pixels per side.
const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// QRCode renders a PNG QR code holding the store's slug, which a viewer
// scans to open the store's menus. ?size= sets the side length in pixels.
func (h *Menus) QRCode(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if r.URL.Query().Has("size") {
		n, err := optionalInt("size", r.URL.Query().Get("size"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		if n < minQRSize || n > maxQRSize {
			writeError(w, r, models.Invalid("size", "must be between %d and %d", minQRSize, maxQRSize))
			return
		}
		size = n
	}

	store, err := h.svc.FindStore(r.Context(), storeParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	png, err := qrcode.Encode(store.Slug, qrcode.Medium, size)
	if err != nil {
		writeError(w, r, fmt.Errorf("encode store qr code: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": store.Slug + "-qr.png"}))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
