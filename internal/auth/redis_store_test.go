package auth_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/api"
	"github.com/2beens/fitcoach/internal/auth"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDeviceID   = "kiosk-1"
	testSessionKey = "fitcoach-session||kiosk-1"
	testDevicesKey = "fitcoach-session-devices"
)

func TestRedisStore_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(db, testDeviceID, time.Hour)

	session := auth.StoredSession{
		Token:     "tok-1",
		User:      api.User{ID: "7", Email: "anna@fit.it"},
		CreatedAt: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectSet(testSessionKey, string(raw), time.Hour).SetVal("OK")
	mock.ExpectSAdd(testDevicesKey, testDeviceID).SetVal(1)

	require.NoError(t, store.Save(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_DefaultTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(db, testDeviceID, 0)

	session := auth.StoredSession{Token: "tok"}
	raw, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectSet(testSessionKey, string(raw), auth.DefaultRedisTTL).SetVal("OK")
	mock.ExpectSAdd(testDevicesKey, testDeviceID).SetVal(1)

	require.NoError(t, store.Save(context.Background(), session))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Load(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(db, testDeviceID, time.Hour)

	raw, err := json.Marshal(auth.StoredSession{Token: "tok-1", User: api.User{Name: "Anna"}})
	require.NoError(t, err)
	mock.ExpectGet(testSessionKey).SetVal(string(raw))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.Equal(t, "Anna", loaded.User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Load_Missing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(db, testDeviceID, time.Hour)

	mock.ExpectGet(testSessionKey).RedisNil()

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Load_Garbage(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(db, testDeviceID, time.Hour)

	mock.ExpectGet(testSessionKey).SetVal("{not json")

	_, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrNoSession)
}

func TestRedisStore_Clear(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(db, testDeviceID, time.Hour)

	mock.ExpectDel(testSessionKey).SetVal(1)
	mock.ExpectSRem(testDevicesKey, testDeviceID).SetVal(1)

	require.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_ScanAndClean(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := auth.NewRedisStore(db, testDeviceID, time.Hour)

	mock.ExpectSMembers(testDevicesKey).SetVal([]string{"kiosk-1", "kiosk-2"})
	mock.ExpectExists("fitcoach-session||kiosk-1").SetVal(1)
	mock.ExpectExists("fitcoach-session||kiosk-2").SetVal(0)
	mock.ExpectSRem(testDevicesKey, "kiosk-2").SetVal(1)

	store.ScanAndClean(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}
