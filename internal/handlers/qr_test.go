// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"image/png"
	"net/http"
	"strconv"
	"strings"
	"testing"
)

func TestQRCode(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		target string
		side   int
	}{
		{"/api/stores/cafe/qr", 256},
		{"/api/stores/cafe/qr?size=512", 512},
		{"/api/stores/" + env.store.ID.String() + "/qr?size=128", 128},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.target, nil, "")
			wantStatus(t, rec, http.StatusOK)
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Content-Type = %q, want image/png", ct)
			}
			if cl := rec.Header().Get("Content-Length"); cl != strconv.Itoa(rec.Body.Len()) {
				t.Errorf("Content-Length = %q, body is %d bytes", cl, rec.Body.Len())
			}
			if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") || !strings.Contains(cd, "cafe-qr.png") {
				t.Errorf("Content-Disposition = %q", cd)
			}
			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("decode png: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.side || b.Dy() != tt.side {
				t.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.side, tt.side)
			}
		})
	}
}

func TestQRCodeErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/stores/cafe/qr?size=64", http.StatusBadRequest},
		{"/api/stores/cafe/qr?size=2048", http.StatusBadRequest},
		{"/api/stores/cafe/qr?size=big", http.StatusBadRequest},
		{"/api/stores/cafe/qr?size=", http.StatusBadRequest},
		{"/api/stores/nowhere/qr", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, tt.target, nil, "")
		if rec.Code != tt.want {
			t.Errorf("GET %s: status = %d, want %d", tt.target, rec.Code, tt.want)
		}
	}
}
