package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-stevedore/internal/config"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/service"
	"github.com/MKhiriev/go-stevedore/internal/store"
	"github.com/MKhiriev/go-stevedore/models"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Mocks ──────────────────────────────────────────────────────────────────

type mockAppointmentService struct {
	createFn func(ctx context.Context, a models.Appointment) (models.Appointment, error)
	getFn    func(ctx context.Context, id int64) (models.Appointment, error)
	listFn   func(ctx context.Context, f models.AppointmentFilter) (models.AppointmentPage, error)
	updateFn func(ctx context.Context, a models.Appointment) (models.Appointment, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockAppointmentService) Create(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	a.ID, a.Version = 1, 1
	return a, nil
}

func (m *mockAppointmentService) Get(ctx context.Context, id int64) (models.Appointment, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return models.Appointment{}, store.ErrAppointmentNotFound
}

func (m *mockAppointmentService) List(ctx context.Context, f models.AppointmentFilter) (models.AppointmentPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return models.AppointmentPage{Items: []models.Appointment{}}, nil
}

func (m *mockAppointmentService) Update(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, a)
	}
	return a, nil
}

func (m *mockAppointmentService) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockAppInfoService struct{}

func (mockAppInfoService) GetAppVersion(context.Context) string { return "1.4.0" }

func (mockAppInfoService) GetBuildInfo(context.Context) models.AppBuildInfo {
	return models.NewAppBuildInfo("1.4.0", "2026-10-01", "abc1234")
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func testTransport() config.Transport {
	return config.Transport{
		MaxBodyBytes:     4096,
		PreflightMethods: "OPTIONS, GET, POST",
		AllowedOrigins:   []string{"https://portal.example"},
	}
}

func newTestRouter(svc *mockAppointmentService, transport config.Transport) http.Handler {
	services := &service.Services{AppointmentService: svc, AppInfoService: mockAppInfoService{}}
	return NewHandler(services, transport, 0, logger.Nop()).Init()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func sampleAppointment(id int64) models.Appointment {
	return models.Appointment{
		ID:              id,
		Kind:            models.KindBulk,
		Vessel:          fmt.Sprintf("Vessel %d", id),
		Berth:           "B7",
		ScheduledAt:     time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC),
		DurationMinutes: 120,
		Version:         1,
	}
}

const createPayload = `{"kind":"timber","vessel":"Aurora","berth":"B4","scheduled_at":"2026-03-01T06:00:00Z","duration_minutes":90,"notes":"deck cargo"}`

// ─── Version / conditional GET ──────────────────────────────────────────────

func TestVersion(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
	assert.True(t, strings.HasPrefix(rr.Header().Get("ETag"), `W/"`))
	assert.Equal(t, fmt.Sprint(rr.Body.Len()), rr.Header().Get("Content-Length"))

	var body models.VersionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, models.VersionResponse{Version: "1.4.0", Date: "2026-10-01", Commit: "abc1234"}, body)
}

func TestVersion_IfNoneMatch(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	first := serve(router, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set("If-None-Match", etag)
	rr := serve(router, req)

	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Equal(t, etag, rr.Header().Get("ETag"))
	assert.Empty(t, rr.Body.Bytes())
	assert.Empty(t, rr.Header().Get("Content-Length"))

	req = httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set("If-None-Match", `W/"0000000000000000"`)
	assert.Equal(t, http.StatusOK, serve(router, req).Code)
}

func TestVersion_Head(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	get := serve(router, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	head := serve(router, httptest.NewRequest(http.MethodHead, "/api/version", nil))

	assert.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.Bytes())
	assert.Equal(t, get.Header().Get("Content-Length"), head.Header().Get("Content-Length"))
	assert.Equal(t, get.Header().Get("ETag"), head.Header().Get("ETag"))
}

// ─── Get ────────────────────────────────────────────────────────────────────

func TestGetAppointment(t *testing.T) {
	svc := &mockAppointmentService{
		getFn: func(_ context.Context, id int64) (models.Appointment, error) {
			if id == 7 {
				return sampleAppointment(7), nil
			}
			return models.Appointment{}, store.ErrAppointmentNotFound
		},
	}
	router := newTestRouter(svc, testTransport())

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/appointments/7", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.Appointment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, sampleAppointment(7), got)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/appointments/8", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, store.ErrAppointmentNotFound.Error(), body.Error)
	assert.Equal(t, rr.Header().Get(traceIDHeader), body.TraceID)
}

func TestGetAppointment_InvalidID(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	for _, id := range []string{"abc", "0", "-3"} {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/appointments/"+id, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, id)
	}
}

func TestGetAppointment_InternalErrorIsMasked(t *testing.T) {
	svc := &mockAppointmentService{
		getFn: func(context.Context, int64) (models.Appointment, error) {
			return models.Appointment{}, fmt.Errorf("%w: connection reset", store.ErrExecutingQuery)
		},
	}
	rr := serve(newTestRouter(svc, testTransport()), httptest.NewRequest(http.MethodGet, "/api/appointments/1", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rr).Error)
}

// ─── List ───────────────────────────────────────────────────────────────────

func TestListAppointments_Filter(t *testing.T) {
	var seen models.AppointmentFilter
	svc := &mockAppointmentService{
		listFn: func(_ context.Context, f models.AppointmentFilter) (models.AppointmentPage, error) {
			seen = f
			return models.AppointmentPage{Items: []models.Appointment{sampleAppointment(1)}, Page: f.Page, PerPage: f.PerPage, Total: 1}, nil
		},
	}
	router := newTestRouter(svc, testTransport())

	rr := serve(router, httptest.NewRequest(http.MethodGet,
		"/api/appointments?kind=timber&berth=B4&from=2026-03-01T00:00:00Z&page=2&per_page=5", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.KindTimber, seen.Kind)
	assert.Equal(t, "B4", seen.Berth)
	require.NotNil(t, seen.From)
	assert.True(t, seen.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, seen.To)
	assert.Equal(t, uint64(2), seen.Page)
	assert.Equal(t, uint64(5), seen.PerPage)

	var page models.AppointmentPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)
}

func TestListAppointments_NegativePage(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/appointments?page=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListAppointments_ValidationError(t *testing.T) {
	svc := &mockAppointmentService{
		listFn: func(context.Context, models.AppointmentFilter) (models.AppointmentPage, error) {
			return models.AppointmentPage{}, fmt.Errorf("%w: %w", service.ErrValidation, service.ErrValidationInvalidKind)
		},
	}
	rr := serve(newTestRouter(svc, testTransport()), httptest.NewRequest(http.MethodGet, "/api/appointments?kind=ferry", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

// ─── Create ─────────────────────────────────────────────────────────────────

func TestCreateAppointment_JSON(t *testing.T) {
	var seen models.Appointment
	svc := &mockAppointmentService{
		createFn: func(_ context.Context, a models.Appointment) (models.Appointment, error) {
			seen = a
			a.ID, a.Version = 42, 1
			return a, nil
		},
	}
	router := newTestRouter(svc, testTransport())

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(createPayload))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(router, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/appointments/42", rr.Header().Get("Location"))
	assert.Equal(t, models.KindTimber, seen.Kind)
	assert.Equal(t, "Aurora", seen.Vessel)
	assert.Equal(t, "B4", seen.Berth)
	assert.Equal(t, 90, seen.DurationMinutes)
	assert.Equal(t, "deck cargo", seen.Notes)
	assert.True(t, seen.ScheduledAt.Equal(time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)))
}

func TestCreateAppointment_Form(t *testing.T) {
	var seen models.Appointment
	svc := &mockAppointmentService{
		createFn: func(_ context.Context, a models.Appointment) (models.Appointment, error) {
			seen = a
			return a, nil
		},
	}
	form := url.Values{
		"kind":             {"bulk"},
		"vessel":           {"Boreas"},
		"berth":            {"C1"},
		"scheduled_at":     {"2026-03-02T10:00:00Z"},
		"duration_minutes": {"45"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := serve(newTestRouter(svc, testTransport()), req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Boreas", seen.Vessel)
	assert.Equal(t, 45, seen.DurationMinutes)
}

func TestCreateAppointment_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		createErr error
		transport func(c *config.Transport)
		want      int
	}{
		{name: "empty body", body: "", want: http.StatusBadRequest},
		{name: "not an object", body: `[1,2]`, want: http.StatusBadRequest},
		{name: "validation", body: createPayload, createErr: fmt.Errorf("%w: %w", service.ErrValidation, service.ErrValidationInvalidBerth), want: http.StatusUnprocessableEntity},
		{name: "slot taken", body: createPayload, createErr: store.ErrSlotTaken, want: http.StatusConflict},
		{name: "too large", body: createPayload, transport: func(c *config.Transport) { c.MaxBodyBytes = 16 }, want: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAppointmentService{
				createFn: func(_ context.Context, a models.Appointment) (models.Appointment, error) {
					return a, tt.createErr
				},
			}
			transport := testTransport()
			if tt.transport != nil {
				tt.transport(&transport)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := serve(newTestRouter(svc, transport), req)

			assert.Equal(t, tt.want, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.NotEmpty(t, decodeError(t, rr).Error)
		})
	}
}

// ─── Update / Delete ────────────────────────────────────────────────────────

func TestUpdateAppointment(t *testing.T) {
	var seen models.Appointment
	svc := &mockAppointmentService{
		updateFn: func(_ context.Context, a models.Appointment) (models.Appointment, error) {
			seen = a
			if a.Version != 3 {
				return models.Appointment{}, store.ErrVersionConflict
			}
			a.Version++
			return a, nil
		},
	}
	router := newTestRouter(svc, testTransport())

	payload := strings.TrimSuffix(createPayload, "}") + `,"version":3}`
	rr := serve(router, httptest.NewRequest(http.MethodPut, "/api/appointments/5", strings.NewReader(payload)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(5), seen.ID)

	var got models.Appointment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(4), got.Version)

	stale := strings.TrimSuffix(createPayload, "}") + `,"version":2}`
	rr = serve(router, httptest.NewRequest(http.MethodPut, "/api/appointments/5", strings.NewReader(stale)))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteAppointment(t *testing.T) {
	svc := &mockAppointmentService{
		deleteFn: func(_ context.Context, id int64) error {
			if id == 9 {
				return nil
			}
			return store.ErrAppointmentNotFound
		},
	}
	router := newTestRouter(svc, testTransport())

	rr := serve(router, httptest.NewRequest(http.MethodDelete, "/api/appointments/9", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.Bytes())
	assert.Empty(t, rr.Header().Get("Content-Length"))

	rr = serve(router, httptest.NewRequest(http.MethodDelete, "/api/appointments/10", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ─── Negotiation ────────────────────────────────────────────────────────────

func largePage() models.AppointmentPage {
	page := models.AppointmentPage{Page: 1, PerPage: 100}
	for i := range 50 {
		page.Items = append(page.Items, sampleAppointment(int64(i+1)))
	}
	page.Total = uint64(len(page.Items))
	return page
}

func TestListAppointments_Compressed(t *testing.T) {
	svc := &mockAppointmentService{
		listFn: func(context.Context, models.AppointmentFilter) (models.AppointmentPage, error) {
			return largePage(), nil
		},
	}
	router := newTestRouter(svc, testTransport())

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req.Header.Set("Accept-Encoding", "br, gzip;q=0.8")
	rr := serve(router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Contains(t, rr.Header().Values("Vary"), "Accept-Encoding")
	assert.Equal(t, fmt.Sprint(rr.Body.Len()), rr.Header().Get("Content-Length"))

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)

	var page models.AppointmentPage
	require.NoError(t, json.Unmarshal(plain, &page))
	assert.Len(t, page.Items, 50)
}

func TestListAppointments_CompressionDisabled(t *testing.T) {
	svc := &mockAppointmentService{
		listFn: func(context.Context, models.AppointmentFilter) (models.AppointmentPage, error) {
			return largePage(), nil
		},
	}
	transport := testTransport()
	transport.DisableCompression = true

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := serve(newTestRouter(svc, transport), req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.True(t, json.Valid(rr.Body.Bytes()))
}

// ─── Request decompression ──────────────────────────────────────────────────

func TestCreateAppointment_CompressedBody(t *testing.T) {
	encoders := map[string]func(w io.Writer) io.WriteCloser{
		"gzip":    func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
		"deflate": func(w io.Writer) io.WriteCloser { return zlib.NewWriter(w) },
	}
	for name, newEncoder := range encoders {
		t.Run(name, func(t *testing.T) {
			var seen models.Appointment
			svc := &mockAppointmentService{
				createFn: func(_ context.Context, a models.Appointment) (models.Appointment, error) {
					seen = a
					return a, nil
				},
			}

			var buf bytes.Buffer
			enc := newEncoder(&buf)
			_, err := enc.Write([]byte(createPayload))
			require.NoError(t, err)
			require.NoError(t, enc.Close())

			req := httptest.NewRequest(http.MethodPost, "/api/appointments", &buf)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Content-Encoding", name)
			rr := serve(newTestRouter(svc, testTransport()), req)

			require.Equal(t, http.StatusCreated, rr.Code)
			assert.Equal(t, "Aurora", seen.Vessel)
		})
	}
}

func TestCreateAppointment_BadBodyEncoding(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader("not gzipped"))
	req.Header.Set("Content-Encoding", "gzip")
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(createPayload))
	req.Header.Set("Content-Encoding", "br")
	assert.Equal(t, http.StatusUnsupportedMediaType, serve(router, req).Code)
}

// ─── CORS / OPTIONS / fallbacks ─────────────────────────────────────────────

func TestPreflight(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments/3", nil)
	req.Header.Set("Origin", "https://portal.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := serve(router, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "OPTIONS, GET, POST", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "https://portal.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Body.Bytes())
}

func TestPlainOptions(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	rr := serve(router, httptest.NewRequest(http.MethodOptions, "/api/version", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "OPTIONS, GET, POST", rr.Header().Get("Allow"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_OnRegularResponses(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"https://portal.example", "https://portal.example"},
		{"https://evil.example", "*"},
		{"", "*"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		rr := serve(router, req)
		assert.Equal(t, tt.want, rr.Header().Get("Access-Control-Allow-Origin"), tt.origin)
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	}
}

func TestFallbacks(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{}, testTransport())

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, ErrRouteNotFound.Error(), decodeError(t, rr).Error)

	rr = serve(router, httptest.NewRequest(http.MethodPatch, "/api/appointments/1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRecoverer(t *testing.T) {
	svc := &mockAppointmentService{
		getFn: func(context.Context, int64) (models.Appointment, error) {
			panic("boom")
		},
	}
	rr := serve(newTestRouter(svc, testTransport()), httptest.NewRequest(http.MethodGet, "/api/appointments/1", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCreateAppointment_TooLargeKeepsTLSOrigin(t *testing.T) {
	transport := testTransport()
	transport.MaxBodyBytes = 16

	req := httptest.NewRequest(http.MethodPost, "https://api.example/api/appointments", strings.NewReader(createPayload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://api.example")
	rr := serve(newTestRouter(&mockAppointmentService{}, transport), req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "https://api.example", rr.Header().Get("Access-Control-Allow-Origin"))
}
