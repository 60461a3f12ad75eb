package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"storefront-service/middleware"
	"storefront-service/storage"

	"github.com/gin-gonic/gin"
)

const testOperatorKey = "test_operator_key"

func newAssetRouter(t *testing.T) (*gin.Engine, *storage.DiskStore) {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	controller := &AssetController{Store: store, PublicBaseURL: "http://localhost:8087"}

	router := gin.New()
	router.GET("/assets/:name", controller.DownloadAsset)
	gated := router.Group("/")
	gated.Use(middleware.OperatorAuth(testOperatorKey, nil))
	gated.POST("/assets", controller.HandleAssetOp)
	return router, store
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadThenDownloadRoundTrip(t *testing.T) {
	router, _ := newAssetRouter(t)
	payload := []byte("%PDF-1.4 test document")

	body, contentType := multipartUpload(t, "original.pdf", payload)
	req := httptest.NewRequest(http.MethodPost, "/assets", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.OperatorKeyHeader, testOperatorKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		URL    string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad upload response: %v", err)
	}
	if resp.Status != "success" || resp.URL == "" {
		t.Fatalf("unexpected upload response %+v", resp)
	}

	name := resp.URL[strings.LastIndex(resp.URL, "/")+1:]
	dlReq := httptest.NewRequest(http.MethodGet, "/assets/"+name, nil)
	dlRec := httptest.NewRecorder()
	router.ServeHTTP(dlRec, dlReq)

	if dlRec.Code != http.StatusOK {
		t.Fatalf("download status %d", dlRec.Code)
	}
	got, _ := io.ReadAll(dlRec.Body)
	if !bytes.Equal(got, payload) {
		t.Fatalf("downloaded bytes differ from upload")
	}
	if ct := dlRec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if cd := dlRec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	router, store := newAssetRouter(t)

	body, contentType := multipartUpload(t, "malware.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/assets", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.OperatorKeyHeader, testOperatorKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "File type not allowed.") {
		t.Fatalf("expected type rejection, got %s", rec.Body.String())
	}

	entries, _ := os.ReadDir(store.BaseDir)
	if len(entries) != 0 {
		t.Fatalf("expected no file written, found %d", len(entries))
	}
}

func TestGatewayFailsClosedWithoutKey(t *testing.T) {
	router, store := newAssetRouter(t)

	cases := []struct {
		name string
		key  string
	}{
		{"missing key", ""},
		{"wrong key", "wrong_key"},
		{"prefix of real key", testOperatorKey[:len(testOperatorKey)-1]},
	}

	for _, tc := range cases {
		// upload attempt
		body, contentType := multipartUpload(t, "doc.pdf", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/assets", body)
		req.Header.Set("Content-Type", contentType)
		if tc.key != "" {
			req.Header.Set(middleware.OperatorKeyHeader, tc.key)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: upload expected 403, got %d", tc.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "UNAUTHORIZED_OPERATOR_ACCESS") {
			t.Fatalf("%s: unexpected body %s", tc.name, rec.Body.String())
		}

		// delete attempt
		delBody, _ := json.Marshal(map[string]string{"action": "delete", "fileUrl": "anything.pdf"})
		delReq := httptest.NewRequest(http.MethodPost, "/assets", bytes.NewReader(delBody))
		delReq.Header.Set("Content-Type", "application/json")
		if tc.key != "" {
			delReq.Header.Set(middleware.OperatorKeyHeader, tc.key)
		}
		delRec := httptest.NewRecorder()
		router.ServeHTTP(delRec, delReq)

		if delRec.Code != http.StatusForbidden {
			t.Fatalf("%s: delete expected 403, got %d", tc.name, delRec.Code)
		}
	}

	entries, _ := os.ReadDir(store.BaseDir)
	if len(entries) != 0 {
		t.Fatalf("unauthorized calls must leave no side effects, found %d files", len(entries))
	}
}

func TestDeleteActionIsIdempotent(t *testing.T) {
	router, store := newAssetRouter(t)

	name, err := store.Save(bytes.NewReader([]byte("img")), "pic.png")
	if err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	deleteOnce := func(fileURL string) map[string]string {
		body, _ := json.Marshal(map[string]string{"action": "delete", "fileUrl": fileURL})
		req := httptest.NewRequest(http.MethodPost, "/assets", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.OperatorKeyHeader, testOperatorKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete status %d: %s", rec.Code, rec.Body.String())
		}
		var resp map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return resp
	}

	resp := deleteOnce("http://localhost:8087/assets/" + name)
	if resp["status"] != "success" || resp["message"] != "ASSET_NEUTRALIZED" {
		t.Fatalf("first delete: %+v", resp)
	}

	resp = deleteOnce("http://localhost:8087/assets/" + name)
	if resp["status"] != "success" || resp["message"] != "ASSET_ALREADY_GONE" {
		t.Fatalf("second delete: %+v", resp)
	}

	resp = deleteOnce("never_existed.pdf")
	if resp["status"] != "success" {
		t.Fatalf("delete of unknown object: %+v", resp)
	}
}

func TestDeleteTraversalRefStaysInside(t *testing.T) {
	router, store := newAssetRouter(t)

	outside := store.BaseDir + "/../passwd"
	if err := os.WriteFile(outside, []byte("root:x:0:0"), 0o644); err != nil {
		t.Fatalf("failed to write decoy: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"action": "delete", "fileUrl": ".../../../etc/passwd"})
	req := httptest.NewRequest(http.MethodPost, "/assets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OperatorKeyHeader, testOperatorKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ASSET_ALREADY_GONE") {
		t.Fatalf("traversal ref should resolve to a missing in-store object, got %s", rec.Body.String())
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("decoy outside the store was deleted: %v", err)
	}
}

func TestDeleteWithoutURL(t *testing.T) {
	router, _ := newAssetRouter(t)

	body, _ := json.Marshal(map[string]string{"action": "delete"})
	req := httptest.NewRequest(http.MethodPost, "/assets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OperatorKeyHeader, testOperatorKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "NO_URL_PROVIDED") {
		t.Fatalf("expected NO_URL_PROVIDED, got %s", rec.Body.String())
	}
}

func TestDownloadMissingAsset(t *testing.T) {
	router, _ := newAssetRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/assets/asset_0_deadbeef.pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ACCESS_DENIED: ASSET_MISSING") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
