// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package api

import (
	_ "embed"
	"net/http"
)

// The admin console ships inside the binary so deploys stay a single
// artifact. It is a plain page that drives the /api/stories endpoints with
// an operator-supplied key; access control lives in the API, not here.
//
//go:embed web/admin/index.html
var adminPageHTML []byte

// AdminPage serves the embedded publishing console at GET /admin.
func AdminPage() http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write(adminPageHTML)
	}
}
