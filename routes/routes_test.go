package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parcel-logistics/database/testutil"
	"parcel-logistics/middleware"
	"parcel-logistics/services/image_store"
	"parcel-logistics/services/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.DB(t)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, Dependencies{
		Ledger: ledger.New(ledger.Options{DB: db}),
		Images: image_store.NewDiskStore(t.TempDir()),
		Auth:   middleware.NewAuth("routes-secret"),
		Cache:  middleware.NewResponseCache(nil, nil),
	})
	return app
}

func bearer(t *testing.T, r string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": r,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("routes-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + token
}

func TestRouteProtection(t *testing.T) {
	app := newApp(t)
	agency, office := uuid.NewString(), uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"track is public", http.MethodGet, "/api/parcel/track-parcel/UNKNOWN", "", http.StatusNotFound},
		{"create needs a token", http.MethodPost, "/api/parcel/" + agency + "/create-parcel/" + office, "", http.StatusUnauthorized},
		{"customers cannot create parcels", http.MethodPost, "/api/parcel/" + agency + "/create-parcel/" + office, bearer(t, "User"), http.StatusForbidden},
		{"operators cannot create tags", http.MethodPost, "/api/tag/" + agency + "/create-tag/" + office, bearer(t, "Operator"), http.StatusForbidden},
		{"agency creates tag for unknown agency", http.MethodPost, "/api/tag/" + agency + "/create-tag/" + office, bearer(t, "Agency"), http.StatusNotFound},
		{"single parcel needs a token", http.MethodGet, "/api/parcel/" + uuid.NewString() + "/get-single-parcels", "", http.StatusUnauthorized},
		{"customers cannot read staff parcel view", http.MethodGet, "/api/parcel/" + uuid.NewString() + "/get-single-parcels", bearer(t, "User"), http.StatusForbidden},
		{"operator reads unknown parcel", http.MethodGet, "/api/parcel/" + uuid.NewString() + "/get-single-parcels", bearer(t, "Operator"), http.StatusNotFound},
		{"customers cannot list tags", http.MethodGet, "/api/tag/" + agency + "/get-tags/" + office, bearer(t, "User"), http.StatusForbidden},
		{"operator lists tags of unknown agency", http.MethodGet, "/api/tag/" + agency + "/get-tags/" + office, bearer(t, "Operator"), http.StatusNotFound},
		{"single tag needs a token", http.MethodGet, "/api/tag/get-single-tag/" + uuid.NewString(), "", http.StatusUnauthorized},
		{"operator reads unknown tag", http.MethodGet, "/api/tag/get-single-tag/" + uuid.NewString(), bearer(t, "Operator"), http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"tagName":"Box"}`))
			req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}
