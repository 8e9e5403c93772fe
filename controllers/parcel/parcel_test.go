package parcel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"parcel-logistics/database/testutil"
	parcel_model "parcel-logistics/models/parcel"
	"parcel-logistics/models/transaction"
	"parcel-logistics/services/image_store"
	"parcel-logistics/services/ledger"
	"parcel-logistics/services/tracking_id"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app       *fiber.App
	db        *gorm.DB
	tenant    *testutil.Tenant
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	uploadDir := filepath.Join(t.TempDir(), "uploads")

	l := ledger.New(ledger.Options{
		DB:        db,
		Allocator: tracking_id.NewCounterAllocator(time.UTC),
	})
	pc := NewParcelController(l, image_store.NewDiskStore(uploadDir), nil)

	app := fiber.New()
	app.Post("/parcel/:agencyID/create-parcel/:officeID", pc.CreateParcel)
	app.Patch("/parcel/:agencyID/:officeID/:parcelID/:updatedBy/update-parcel-status", pc.UpdateParcelStatus)
	app.Patch("/parcel/:agencyID/:officeID/:tagID/:updatedBy/bulk-update-parcel-status", pc.BulkUpdateParcelStatus)
	app.Get("/parcel/track-parcel/:trackingID", pc.TrackParcel)
	app.Get("/parcel/:parcelID/get-single-parcels", pc.GetSingleParcel)

	return &testServer{app: app, db: db, tenant: testutil.SeedTenant(t, ctx, db), uploadDir: uploadDir}
}

func (s *testServer) do(t *testing.T, req *http.Request) envelope {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	var env envelope
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode response %q: %v", body, err)
	}
	if env.Status != resp.StatusCode {
		t.Fatalf("envelope status %d differs from http status %d", env.Status, resp.StatusCode)
	}
	return env
}

func jsonRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func (s *testServer) createBody() map[string]interface{} {
	return map[string]interface{}{
		"weight":            10,
		"transportMethod":   "Air",
		"destinationID":     s.tenant.Destination.ID.String(),
		"customerID":        s.tenant.Customer.ID.String(),
		"createdBy":         s.tenant.Operator.ID.String(),
		"tagID":             nil,
		"notificationCost":  nil,
		"estimateArrival":   "2 weeks",
		"description":       "books",
		"mixedPackage":      false,
		"whatsappNotif":     false,
		"pricePerKilo":      5,
		"actualCarrierCost": 30,
		"paymentStatus":     "PENDING PAYMENT",
		"status":            "RECEIVED IN WAREHOUSE",
	}
}

func (s *testServer) createURL() string {
	return "/parcel/" + s.tenant.Agency.ID.String() + "/create-parcel/" + s.tenant.Office.ID.String()
}

type createdData struct {
	Parcel      parcel_model.Parcel     `json:"parcel"`
	Transaction transaction.Transaction `json:"transaction"`
}

func TestCreateParcelJSON(t *testing.T) {
	s := newTestServer(t)

	env := s.do(t, jsonRequest(t, http.MethodPost, s.createURL(), s.createBody()))
	if env.Status != fiber.StatusCreated {
		t.Fatalf("status = %d (%s), want 201", env.Status, env.Message)
	}

	var data createdData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Parcel.TrackingID == "" {
		t.Fatal("tracking id is empty")
	}
	if got := data.Transaction.TotalPrice.String(); got != "50" {
		t.Fatalf("total price = %s, want 50", got)
	}
}

func TestCreateParcelMultipartStoresPictures(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"weight":            "2.5",
		"transportMethod":   "Sea",
		"destinationID":     s.tenant.Destination.ID.String(),
		"customerID":        s.tenant.Customer.ID.String(),
		"createdBy":         s.tenant.Operator.ID.String(),
		"tagID":             "null",
		"estimateArrival":   "1 month",
		"description":       "shoes",
		"mixedPackage":      "false",
		"whatsappNotif":     "false",
		"pricePerKilo":      "4",
		"actualCarrierCost": "3",
		"paymentStatus":     "PAYMENT VALIDATED",
		"status":            "RECEIVED IN WAREHOUSE",
	} {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	part, err := w.CreateFormFile("packagePicture", "box.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("jpeg bytes"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, s.createURL(), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	env := s.do(t, req)
	if env.Status != fiber.StatusCreated {
		t.Fatalf("status = %d (%s), want 201", env.Status, env.Message)
	}

	var data createdData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Parcel.PackagePicture) != 1 {
		t.Fatalf("pictures = %v, want one", data.Parcel.PackagePicture)
	}
	if got := data.Transaction.TotalPrice.String(); got != "10" {
		t.Fatalf("total price = %s, want 10", got)
	}

	entries, err := os.ReadDir(filepath.Join(s.uploadDir, "parcels"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("upload dir entries = %v, err %v", entries, err)
	}
}

func TestCreateParcelRemovesPicturesOnFailure(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"weight":            "1",
		"transportMethod":   "Air",
		"destinationID":     s.tenant.Destination.ID.String(),
		"customerID":        s.tenant.Operator.ID.String(), // not a customer
		"createdBy":         s.tenant.Operator.ID.String(),
		"estimateArrival":   "soon",
		"pricePerKilo":      "1",
		"actualCarrierCost": "0",
		"paymentStatus":     "PENDING PAYMENT",
		"status":            "RECEIVED IN WAREHOUSE",
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	part, _ := w.CreateFormFile("packagePicture", "box.png")
	part.Write([]byte("png bytes"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, s.createURL(), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	env := s.do(t, req)
	if env.Status != fiber.StatusNotFound || env.Message != "Customer Not Found" {
		t.Fatalf("got %d %q, want 404 Customer Not Found", env.Status, env.Message)
	}

	entries, _ := os.ReadDir(filepath.Join(s.uploadDir, "parcels"))
	if len(entries) != 0 {
		t.Fatalf("pictures left behind: %v", entries)
	}
}

func TestCreateParcelErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		url     string
		mutate  func(map[string]interface{})
		status  int
		message string
	}{
		{
			name:    "malformed agency id",
			url:     "/parcel/not-a-uuid/create-parcel/" + s.tenant.Office.ID.String(),
			status:  fiber.StatusNotFound,
			message: "Agency not found",
		},
		{
			name:    "mixed package without tag",
			mutate:  func(b map[string]interface{}) { b["mixedPackage"] = true },
			status:  fiber.StatusBadRequest,
			message: "Tag ID is required when mixed package is enabled",
		},
		{
			name:    "notification without cost",
			mutate:  func(b map[string]interface{}) { b["whatsappNotif"] = true },
			status:  fiber.StatusBadRequest,
			message: "Notification cost is required when WhatsApp notification is enabled",
		},
		{
			name:    "malformed customer id",
			mutate:  func(b map[string]interface{}) { b["customerID"] = "abc" },
			status:  fiber.StatusBadRequest,
			message: "customerID must be a valid id",
		},
		{
			name:    "unknown tag",
			mutate:  func(b map[string]interface{}) { b["mixedPackage"] = true; b["tagID"] = s.tenant.Office.ID.String() },
			status:  fiber.StatusNotFound,
			message: "Invalid Tag ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := s.createBody()
			if tt.mutate != nil {
				tt.mutate(body)
			}
			url := tt.url
			if url == "" {
				url = s.createURL()
			}
			env := s.do(t, jsonRequest(t, http.MethodPost, url, body))
			if env.Status != tt.status || env.Message != tt.message {
				t.Fatalf("got %d %q, want %d %q", env.Status, env.Message, tt.status, tt.message)
			}
		})
	}
}

func TestUpdateAndTrackParcel(t *testing.T) {
	s := newTestServer(t)

	env := s.do(t, jsonRequest(t, http.MethodPost, s.createURL(), s.createBody()))
	if env.Status != fiber.StatusCreated {
		t.Fatalf("create: %d %s", env.Status, env.Message)
	}
	var created createdData
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	url := "/parcel/" + s.tenant.Agency.ID.String() + "/" + s.tenant.Office.ID.String() + "/" +
		created.Parcel.ID.String() + "/" + s.tenant.Operator.ID.String() + "/update-parcel-status"
	env = s.do(t, jsonRequest(t, http.MethodPatch, url, map[string]interface{}{
		"status":        "SHIPPED",
		"paymentStatus": "PAYMENT VALIDATED",
	}))
	if env.Status != fiber.StatusOK {
		t.Fatalf("update: %d %s", env.Status, env.Message)
	}

	env = s.do(t, httptest.NewRequest(http.MethodGet, "/parcel/track-parcel/"+created.Parcel.TrackingID, nil))
	if env.Status != fiber.StatusOK {
		t.Fatalf("track: %d %s", env.Status, env.Message)
	}
	var tracked ledger.TrackedParcel
	if err := json.Unmarshal(env.Data, &tracked); err != nil {
		t.Fatalf("decode tracked: %v", err)
	}
	if tracked.Parcel.Status != parcel_model.StatusShipped || tracked.PaymentStatus != transaction.PaymentValidated {
		t.Fatalf("tracked = %s/%s, want SHIPPED/PAYMENT VALIDATED", tracked.Parcel.Status, tracked.PaymentStatus)
	}
	if len(tracked.ParcelHistory) != 2 || len(tracked.PaymentHistory) != 2 {
		t.Fatalf("history = %d/%d entries, want 2/2", len(tracked.ParcelHistory), len(tracked.PaymentHistory))
	}
}

func TestUpdateParcelStatusErrors(t *testing.T) {
	s := newTestServer(t)
	base := "/parcel/" + s.tenant.Agency.ID.String() + "/" + s.tenant.Office.ID.String() + "/"

	tests := []struct {
		name    string
		url     string
		body    map[string]interface{}
		status  int
		message string
	}{
		{
			name:    "missing status",
			url:     base + s.tenant.Office.ID.String() + "/" + s.tenant.Operator.ID.String() + "/update-parcel-status",
			body:    map[string]interface{}{"paymentStatus": "PAYMENT VALIDATED"},
			status:  fiber.StatusBadRequest,
			message: "status is required",
		},
		{
			name:    "malformed parcel id",
			url:     base + "nope/" + s.tenant.Operator.ID.String() + "/update-parcel-status",
			body:    map[string]interface{}{"status": "SHIPPED", "paymentStatus": "PAYMENT VALIDATED"},
			status:  fiber.StatusNotFound,
			message: "Parcel Not Found",
		},
		{
			name:    "unknown parcel",
			url:     base + s.tenant.Office.ID.String() + "/" + s.tenant.Operator.ID.String() + "/update-parcel-status",
			body:    map[string]interface{}{"status": "SHIPPED", "paymentStatus": "PAYMENT VALIDATED"},
			status:  fiber.StatusNotFound,
			message: "Parcel Not Found",
		},
		{
			name:    "bad manual date",
			url:     base + s.tenant.Office.ID.String() + "/" + s.tenant.Operator.ID.String() + "/update-parcel-status",
			body:    map[string]interface{}{"status": "SHIPPED", "paymentStatus": "PAYMENT VALIDATED", "manualDate": "yesterday"},
			status:  fiber.StatusBadRequest,
			message: `Invalid manual date "yesterday"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := s.do(t, jsonRequest(t, http.MethodPatch, tt.url, tt.body))
			if env.Status != tt.status || env.Message != tt.message {
				t.Fatalf("got %d %q, want %d %q", env.Status, env.Message, tt.status, tt.message)
			}
		})
	}
}

func TestBulkUpdateParcelStatus(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tg := testutil.SeedTag(t, ctx, s.db, s.tenant.Agency.ID, s.tenant.Office.ID, "Container 7")
	for i := 0; i < 3; i++ {
		testutil.SeedParcel(t, ctx, s.db, s.tenant, testutil.ParcelSeed{
			Status:        parcel_model.StatusWaitingToBeGrouped,
			PaymentStatus: transaction.PaymentPending,
			TagID:         &tg.ID,
		})
	}

	url := "/parcel/" + s.tenant.Agency.ID.String() + "/" + s.tenant.Office.ID.String() + "/" +
		tg.ID.String() + "/" + s.tenant.Agency.ID.String() + "/bulk-update-parcel-status"
	env := s.do(t, jsonRequest(t, http.MethodPatch, url, map[string]interface{}{
		"status":        "READY FOR SHIPMENT",
		"paymentStatus": "PAYMENT VALIDATED",
	}))
	if env.Status != fiber.StatusOK {
		t.Fatalf("bulk: %d %s", env.Status, env.Message)
	}
	if want := "Successfully updated 3 parcels with tag Container 7"; env.Message != want {
		t.Fatalf("message = %q, want %q", env.Message, want)
	}

	var n int64
	s.db.Model(&parcel_model.Parcel{}).Where("status = ?", parcel_model.StatusReadyForShipment).Count(&n)
	if n != 3 {
		t.Fatalf("updated parcels = %d, want 3", n)
	}
}

func TestTrackParcelUnknown(t *testing.T) {
	s := newTestServer(t)

	env := s.do(t, httptest.NewRequest(http.MethodGet, "/parcel/track-parcel/NOPE-FR-260101-001", nil))
	if env.Status != fiber.StatusNotFound || env.Message != "Invalid Parcel ID" {
		t.Fatalf("got %d %q, want 404 Invalid Parcel ID", env.Status, env.Message)
	}
}

func TestGetSingleParcel(t *testing.T) {
	s := newTestServer(t)

	env := s.do(t, jsonRequest(t, http.MethodPost, s.createURL(), s.createBody()))
	if env.Status != fiber.StatusCreated {
		t.Fatalf("create: %d %s", env.Status, env.Message)
	}
	var created createdData
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	env = s.do(t, httptest.NewRequest(http.MethodGet, "/parcel/"+created.Parcel.ID.String()+"/get-single-parcels", nil))
	if env.Status != fiber.StatusOK {
		t.Fatalf("get: %d %s", env.Status, env.Message)
	}
	var detail ledger.ParcelDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Parcel.TrackingID != created.Parcel.TrackingID || detail.Transaction == nil ||
		!detail.Transaction.TotalPrice.Equal(created.Transaction.TotalPrice) {
		t.Fatalf("detail = %+v / %+v", detail.Parcel, detail.Transaction)
	}
	if detail.Customer == nil || detail.Customer.ID != s.tenant.Customer.ID {
		t.Fatalf("customer = %+v", detail.Customer)
	}
	if len(detail.ParcelHistory) != 1 || len(detail.PaymentHistory) != 1 {
		t.Fatalf("history = %d/%d entries, want 1/1", len(detail.ParcelHistory), len(detail.PaymentHistory))
	}

	for _, id := range []string{"not-a-uuid", s.tenant.Office.ID.String()} {
		env = s.do(t, httptest.NewRequest(http.MethodGet, "/parcel/"+id+"/get-single-parcels", nil))
		if env.Status != fiber.StatusNotFound || env.Message != "Invalid Parcel ID" {
			t.Fatalf("%s: got %d %q, want 404 Invalid Parcel ID", id, env.Status, env.Message)
		}
	}
}
