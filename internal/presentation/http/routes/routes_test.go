package routes

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-studio/internal/application/service"
	"github.com/sangkips/receipt-studio/internal/config"
	infra "github.com/sangkips/receipt-studio/internal/infrastructure/repository"
	"github.com/sangkips/receipt-studio/internal/presentation/http/handler"
	"github.com/sangkips/receipt-studio/internal/presentation/http/middleware"
	"github.com/sangkips/receipt-studio/pkg/printer"
	"github.com/sangkips/receipt-studio/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	session string
	printer *printer.BufferPrinter
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Warning string          `json:"warning"`
	Prompt  string          `json:"prompt"`
}

type draftBody struct {
	SessionID string `json:"sessionId"`
	Draft     struct {
		StoreName string `json:"storeName"`
		Items     []struct {
			Name  string `json:"name"`
			Price string `json:"price"`
		} `json:"items"`
		LogoSrc string `json:"logoSrc"`
	} `json:"draft"`
	Totals struct {
		Subtotal  string `json:"subtotal"`
		Total     string `json:"total"`
		Tendered  string `json:"tendered"`
		Change    string `json:"change"`
		ItemCount int    `json:"itemCount"`
	} `json:"totals"`
	Preview string `json:"preview"`
}

func newTestServer(t *testing.T, quota int64) *testServer {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Name: "receipt-studio"},
		History: config.HistoryConfig{Key: "receipt_history", Capacity: 50, NodeID: 1},
		Export:  config.ExportConfig{Scale: 1, JPEGQuality: 90, PDFJPEGQuality: 95, Background: render.DefaultBackground},
		Session: config.SessionConfig{TTL: time.Hour},
	}

	history, err := service.NewHistoryStore(infra.NewMemoryKVRepository(quota), cfg.History, nil)
	require.NoError(t, err)
	raster, err := render.NewRaster(cfg.Export.Background)
	require.NoError(t, err)
	export, err := service.NewExportService(history, raster, cfg.Export, nil)
	require.NoError(t, err)

	buf := printer.NewBufferPrinter()
	sessions := service.NewSessionManager(cfg.Session, nil, nil)

	router := Setup(&Handlers{
		Draft:   handler.NewDraftHandler(export, nil),
		History: handler.NewHistoryHandler(history),
		Printer: handler.NewPrinterHandler(service.NewPrinterService(buf, nil, 32, nil)),
	}, &Deps{Cfg: cfg, Log: nil, Sessions: sessions})

	return &testServer{router: router, printer: buf}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(t, req, headers...)
}

func (s *testServer) send(t *testing.T, req *http.Request, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	if s.session != "" {
		req.Header.Set(middleware.SessionHeader, s.session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if id := w.Header().Get(middleware.SessionHeader); id != "" {
		s.session = id
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeDraft(t *testing.T, w *httptest.ResponseRecorder) draftBody {
	t.Helper()
	var d draftBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &d))
	return d
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 0)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestDraftSessionIsStable(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(t, http.MethodGet, "/api/v1/draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := s.session
	require.NotEmpty(t, first)
	assert.Equal(t, first, decodeDraft(t, w).SessionID)

	s.do(t, http.MethodGet, "/api/v1/draft", nil)
	assert.Equal(t, first, s.session)
}

func TestEditDraft(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(t, http.MethodPatch, "/api/v1/draft", map[string]interface{}{
		"fields": map[string]string{"storeName": "Corner Shop", "taxRate": "8"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/v1/draft/items/0", map[string]string{"name": "Coffee", "price": "3.50"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/draft/items", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPut, "/api/v1/draft/items/1", map[string]string{"name": "Bagel", "price": "2.25"})
	require.Equal(t, http.StatusOK, w.Code)

	d := decodeDraft(t, w)
	assert.Equal(t, "Corner Shop", d.Draft.StoreName)
	assert.Equal(t, "$5.75", d.Totals.Subtotal)
	assert.Equal(t, "$6.21", d.Totals.Total)
	assert.Equal(t, "$10.00", d.Totals.Tendered)
	assert.Equal(t, "$3.79", d.Totals.Change)
	assert.Equal(t, 2, d.Totals.ItemCount)
	assert.Contains(t, d.Preview, "CORNER SHOP")

	w = s.do(t, http.MethodDelete, "/api/v1/draft/items/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bagel", decodeDraft(t, w).Draft.Items[0].Name)

	w = s.do(t, http.MethodPut, "/api/v1/draft/items/9", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodPut, "/api/v1/draft/items/abc", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateFieldsRejectsUnknownFieldAtomically(t *testing.T) {
	s := newTestServer(t, 0)

	w := s.do(t, http.MethodPatch, "/api/v1/draft", map[string]interface{}{
		"fields": map[string]string{"storeName": "Corner Shop", "colour": "red"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/draft", nil)
	assert.Empty(t, decodeDraft(t, w).Draft.StoreName)
}

func TestResetNeedsConfirmation(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(t, http.MethodPatch, "/api/v1/draft", map[string]interface{}{"fields": map[string]string{"storeName": "Keep"}})

	w := s.do(t, http.MethodPost, "/api/v1/draft/reset", nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, service.ResetPrompt, decode(t, w).Prompt)
	assert.Equal(t, "Keep", decodeDraft(t, s.do(t, http.MethodGet, "/api/v1/draft", nil)).Draft.StoreName)

	w = s.do(t, http.MethodPost, "/api/v1/draft/reset?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeDraft(t, w).Draft.StoreName)
}

func TestLogoUpload(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(t, http.MethodGet, "/api/v1/draft", nil)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.Black)
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	upload := func(name string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("logo", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/v1/draft/logo", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return s.send(t, req)
	}

	w := upload("notes.txt", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload("logo.png", pngBuf.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decodeDraft(t, w).Draft.LogoSrc, "data:image/png;base64,")

	w = s.do(t, http.MethodDelete, "/api/v1/draft/logo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeDraft(t, w).Draft.LogoSrc)
}

func TestDownloadSavesHistoryAndLoadRestores(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(t, http.MethodPatch, "/api/v1/draft", map[string]interface{}{"fields": map[string]string{"storeName": "Saved Shop"}})
	s.do(t, http.MethodPut, "/api/v1/draft/items/0", map[string]string{"name": "Hat", "price": "15"})

	w := s.do(t, http.MethodPost, "/api/v1/draft/download", map[string]string{"format": "png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="receipt_\d+\.png"`, w.Header().Get("Content-Disposition"))
	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)

	w = s.do(t, http.MethodGet, "/api/v1/history?page=1&per_page=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []struct {
			ID        string `json:"id"`
			StoreName string `json:"storeName"`
			Total     string `json:"total"`
		} `json:"items"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Saved Shop", page.Items[0].StoreName)
	assert.Equal(t, "$15.00", page.Items[0].Total)
	assert.Equal(t, 1, page.Pagination.Total)
	id := page.Items[0].ID

	w = s.do(t, http.MethodGet, "/api/v1/history/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storeName":"Saved Shop"`)

	// A different client loads the saved receipt into its own draft.
	other := &testServer{router: s.router}
	w = other.do(t, http.MethodPost, "/api/v1/history/"+id+"/load", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := decodeDraft(t, w)
	assert.NotEqual(t, s.session, other.session)
	assert.Equal(t, "Saved Shop", d.Draft.StoreName)
	assert.Equal(t, "$15.00", d.Totals.Total)
}

func TestDownloadRejectsUnknownFormat(t *testing.T) {
	s := newTestServer(t, 0)
	w := s.do(t, http.MethodPost, "/api/v1/draft/download", map[string]string{"format": "gif"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadWarnsWhenHistoryCannotBeStored(t *testing.T) {
	s := newTestServer(t, 8)
	w := s.do(t, http.MethodPost, "/api/v1/draft/download?format=jpg", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(middleware.HistoryWarningHeader))
}

func TestDeleteHistoryNeedsConfirmation(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(t, http.MethodPost, "/api/v1/draft/download", nil)

	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(decode(t, s.do(t, http.MethodGet, "/api/v1/history", nil)).Data, &page))
	require.Len(t, page.Items, 1)
	path := "/api/v1/history/" + page.Items[0].ID

	w := s.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, service.DeletePrompt, decode(t, w).Prompt)

	w = s.do(t, http.MethodDelete, path, nil, middleware.ConfirmHeader, "true")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/history/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrintDraft(t *testing.T) {
	s := newTestServer(t, 0)
	s.do(t, http.MethodPatch, "/api/v1/draft", map[string]interface{}{"fields": map[string]string{"storeName": "Print Me"}})

	w := s.do(t, http.MethodPost, "/api/v1/printer/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PRINT ME")
	assert.Len(t, s.printer.Jobs(), 1)

	w = s.do(t, http.MethodGet, "/api/v1/printer/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"buffer"`)
}
