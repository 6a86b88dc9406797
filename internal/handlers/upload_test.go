// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// pngBytes is a minimal PNG header that http.DetectContentType recognises.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func multipartRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "me.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/selfies", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadSelfie_Success(t *testing.T) {
	up := &fakeUploader{}
	h := NewArena(&fakeGenerator{}, &fakeReader{}, nil, up)

	rr := httptest.NewRecorder()
	h.UploadSelfie(rr, multipartRequest(t, "selfie", pngBytes))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	if up.contentType != "image/png" {
		t.Errorf("content type: got %q", up.contentType)
	}
	if !strings.HasPrefix(up.key, "selfies/") || !strings.HasSuffix(up.key, ".png") {
		t.Errorf("key: got %q", up.key)
	}
	if !bytes.Equal(up.body, pngBytes) || up.size != int64(len(pngBytes)) {
		t.Errorf("uploaded %d bytes (size %d), want %d", len(up.body), up.size, len(pngBytes))
	}
	if body := decodeBody(t, rr); body["url"] != "https://cdn.example.com/"+up.key {
		t.Errorf("url: got %v", body["url"])
	}
}

func TestUploadSelfie_Errors(t *testing.T) {
	tests := []struct {
		name     string
		uploader Uploader
		req      func(t *testing.T) *http.Request
		status   int
	}{
		{
			name:   "no storage",
			req:    func(t *testing.T) *http.Request { return multipartRequest(t, "selfie", pngBytes) },
			status: http.StatusServiceUnavailable,
		},
		{
			name:     "wrong field",
			uploader: &fakeUploader{},
			req:      func(t *testing.T) *http.Request { return multipartRequest(t, "photo", pngBytes) },
			status:   http.StatusBadRequest,
		},
		{
			name:     "not an image",
			uploader: &fakeUploader{},
			req:      func(t *testing.T) *http.Request { return multipartRequest(t, "selfie", []byte("just text")) },
			status:   http.StatusBadRequest,
		},
		{
			name:     "not multipart",
			uploader: &fakeUploader{},
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/selfies", strings.NewReader("{}"))
			},
			status: http.StatusBadRequest,
		},
		{
			name:     "upload failure",
			uploader: &fakeUploader{err: errors.New("s3 down")},
			req:      func(t *testing.T) *http.Request { return multipartRequest(t, "selfie", pngBytes) },
			status:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewArena(&fakeGenerator{}, &fakeReader{}, nil, tt.uploader)

			rr := httptest.NewRecorder()
			h.UploadSelfie(rr, tt.req(t))

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d (%s)", rr.Code, tt.status, rr.Body.String())
			}
		})
	}
}
