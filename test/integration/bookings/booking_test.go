//go:build integration

package bookings

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"hotelbooking/pkg/client"
	"hotelbooking/pkg/model"
	"hotelbooking/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// These tests expect a running server with bot verification disabled.

type listResponse struct {
	Success bool             `json:"success"`
	Data    []*model.Booking `json:"data"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func validRequest(suffix string) *model.BookingRequest {
	return &model.BookingRequest{
		GuestName: "Integration Guest " + suffix,
		Phone:     "+911234567890",
		CheckIn:   "2030-05-01",
		CheckOut:  "2030-05-03",
		RoomType:  "Deluxe",
	}
}

func submit(t *testing.T, c *client.BookingClient, req *model.BookingRequest) (int, submitResponse) {
	t.Helper()
	resp, err := c.Submit(context.Background(), req)
	require.NoError(t, err)

	var body submitResponse
	require.NoError(t, resp.DecodeJSON(&body))
	return resp.StatusCode, body
}

func TestBookings(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, c := env.Setup(t)
	defer env.Cleanup(t, mongo)

	t.Run("submit stores booking with defaults", func(t *testing.T) {
		req := validRequest(fmt.Sprint(time.Now().UnixNano()))
		status, body := submit(t, c, req)

		require.Equal(t, http.StatusOK, status)
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.ID)

		var stored model.Booking
		mongo.FindOne(t, testutil.BookingsCollection, bson.M{"guest_name": req.GuestName}, &stored)
		assert.Equal(t, "None", stored.Message)
		assert.Equal(t, "Unknown", stored.Device)
		assert.False(t, stored.Timestamp.IsZero())
	})

	t.Run("duplicate is a soft rejection", func(t *testing.T) {
		req := validRequest("duplicate")
		status, first := submit(t, c, req)
		require.Equal(t, http.StatusOK, status)
		require.True(t, first.Success)

		status, second := submit(t, c, req)
		assert.Equal(t, http.StatusOK, status)
		assert.False(t, second.Success)
		assert.Equal(t, "Duplicate booking", second.Message)
		assert.Equal(t, int64(1), mongo.CountWhere(t, testutil.BookingsCollection, bson.M{"guest_name": req.GuestName}))
	})

	t.Run("missing fields", func(t *testing.T) {
		req := validRequest("missing")
		req.RoomType = ""
		status, body := submit(t, c, req)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.False(t, body.Success)
		assert.Equal(t, "Missing required fields", body.Error)
	})

	t.Run("concurrent identical submissions store one booking", func(t *testing.T) {
		req := validRequest("concurrent")

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := c.Submit(context.Background(), req)
				if assert.NoError(t, err) {
					assert.Equal(t, http.StatusOK, resp.StatusCode)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), mongo.CountWhere(t, testutil.BookingsCollection, bson.M{"guest_name": req.GuestName}))
	})

	t.Run("list returns bookings in insertion order", func(t *testing.T) {
		resp, err := c.List(context.Background())
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body listResponse
		require.NoError(t, resp.DecodeJSON(&body))
		assert.True(t, body.Success)
		require.Len(t, body.Data, int(mongo.CountDocuments(t, testutil.BookingsCollection)))
		for i := 1; i < len(body.Data); i++ {
			assert.False(t, body.Data[i].Timestamp.Before(body.Data[i-1].Timestamp))
		}
	})
}
