package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-stevedore/internal/cache"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/mock"
	"github.com/MKhiriev/go-stevedore/internal/store"
	"github.com/MKhiriev/go-stevedore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testTTL = 5 * time.Minute

func newTestAppointmentService(t *testing.T) (AppointmentService, *mock.MockAppointmentRepository, *mock.MockCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockAppointmentRepository(ctrl)
	c := mock.NewMockCache(ctrl)
	return NewAppointmentService(repo, c, testTTL, logger.Nop()), repo, c
}

func testAppointment() models.Appointment {
	return models.Appointment{
		ID:              11,
		Kind:            models.KindStevedoring,
		Vessel:          "Boreas",
		Berth:           "C2",
		ScheduledAt:     time.Date(2026, 4, 2, 7, 30, 0, 0, time.UTC),
		DurationMinutes: 240,
		Version:         1,
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// ─────────────────────────────────────────────
// Get
// ─────────────────────────────────────────────

func TestAppointmentService_Get_CacheHit(t *testing.T) {
	svc, _, c := newTestAppointmentService(t)
	a := testAppointment()

	c.EXPECT().Get(gomock.Any(), "appointment:11").Return(mustJSON(t, a), nil)

	got, err := svc.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAppointmentService_Get_CacheMissFillsCache(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)
	a := testAppointment()

	gomock.InOrder(
		c.EXPECT().Get(gomock.Any(), "appointment:11").Return(nil, cache.ErrCacheKeyNotFound),
		repo.EXPECT().Get(gomock.Any(), int64(11)).Return(a, nil),
		c.EXPECT().Set(gomock.Any(), "appointment:11", mustJSON(t, a), testTTL).Return(nil),
	)

	got, err := svc.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAppointmentService_Get_CacheFailuresAreNotFatal(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)
	a := testAppointment()

	c.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, cache.ErrCacheConnection)
	repo.EXPECT().Get(gomock.Any(), int64(11)).Return(a, nil)
	c.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.ErrCacheConnection)

	got, err := svc.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAppointmentService_Get_CorruptEntryIsDropped(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)
	a := testAppointment()

	c.EXPECT().Get(gomock.Any(), "appointment:11").Return([]byte("{broken"), nil)
	c.EXPECT().Delete(gomock.Any(), "appointment:11").Return(nil)
	repo.EXPECT().Get(gomock.Any(), int64(11)).Return(a, nil)
	c.EXPECT().Set(gomock.Any(), "appointment:11", gomock.Any(), testTTL).Return(nil)

	_, err := svc.Get(context.Background(), 11)
	require.NoError(t, err)
}

func TestAppointmentService_Get_NotFound(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)

	c.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, cache.ErrCacheKeyNotFound)
	repo.EXPECT().Get(gomock.Any(), int64(11)).Return(models.Appointment{}, store.ErrAppointmentNotFound)

	_, err := svc.Get(context.Background(), 11)
	require.ErrorIs(t, err, store.ErrAppointmentNotFound)
}

func TestAppointmentService_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockAppointmentRepository(ctrl)
	svc := NewAppointmentService(repo, nil, testTTL, logger.Nop())
	a := testAppointment()

	repo.EXPECT().Get(gomock.Any(), int64(11)).Return(a, nil)
	repo.EXPECT().Delete(gomock.Any(), int64(11)).Return(nil)

	got, err := svc.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	require.NoError(t, svc.Delete(context.Background(), 11))
}

// ─────────────────────────────────────────────
// Writes
// ─────────────────────────────────────────────

func TestAppointmentService_Create_CachesResult(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)
	a := testAppointment()
	input := a
	input.ID, input.Version = 0, 0

	repo.EXPECT().Create(gomock.Any(), input).Return(a, nil)
	c.EXPECT().Set(gomock.Any(), "appointment:11", mustJSON(t, a), testTTL).Return(nil)

	got, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
}

func TestAppointmentService_Create_Error(t *testing.T) {
	svc, repo, _ := newTestAppointmentService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Appointment{}, store.ErrSlotTaken)

	_, err := svc.Create(context.Background(), testAppointment())
	require.ErrorIs(t, err, store.ErrSlotTaken)
}

func TestAppointmentService_Update_Invalidates(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)
	a := testAppointment()
	updated := a
	updated.Version = 2

	repo.EXPECT().Update(gomock.Any(), a).Return(updated, nil)
	c.EXPECT().Delete(gomock.Any(), "appointment:11").Return(nil)

	got, err := svc.Update(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}

func TestAppointmentService_Update_ConflictInvalidates(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)

	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(models.Appointment{}, store.ErrVersionConflict)
	c.EXPECT().Delete(gomock.Any(), "appointment:11").Return(nil)

	_, err := svc.Update(context.Background(), testAppointment())
	require.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestAppointmentService_Update_OtherErrorKeepsCache(t *testing.T) {
	svc, repo, _ := newTestAppointmentService(t)

	dbErr := errors.New("db down")
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(models.Appointment{}, dbErr)

	_, err := svc.Update(context.Background(), testAppointment())
	require.ErrorIs(t, err, dbErr)
}

func TestAppointmentService_Delete(t *testing.T) {
	svc, repo, c := newTestAppointmentService(t)

	repo.EXPECT().Delete(gomock.Any(), int64(11)).Return(nil)
	c.EXPECT().Delete(gomock.Any(), "appointment:11").Return(cache.ErrCacheConnection)

	require.NoError(t, svc.Delete(context.Background(), 11))
}

func TestAppointmentService_Delete_NotFound(t *testing.T) {
	svc, repo, _ := newTestAppointmentService(t)

	repo.EXPECT().Delete(gomock.Any(), int64(11)).Return(store.ErrAppointmentNotFound)

	require.ErrorIs(t, svc.Delete(context.Background(), 11), store.ErrAppointmentNotFound)
}

func TestAppointmentService_List_BypassesCache(t *testing.T) {
	svc, repo, _ := newTestAppointmentService(t)
	filter := models.AppointmentFilter{Kind: models.KindBulk, Page: 1, PerPage: 20}
	page := models.AppointmentPage{Items: []models.Appointment{testAppointment()}, Page: 1, PerPage: 20, Total: 1}

	repo.EXPECT().List(gomock.Any(), filter).Return(page, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}
