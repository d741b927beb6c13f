//go:build integration

package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"hotelbooking/pkg/model"
	"hotelbooking/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLogSession(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, c := env.Setup(t)
	defer env.Cleanup(t, mongo)

	events := []*model.VisitorSessionRequest{
		{SessionID: "it-session", Page: "/", EventType: model.EventPageVisit, Timestamp: json.RawMessage(`1746095400000`)},
		{SessionID: "it-session", Page: "/rooms", EventType: model.EventPageVisit},
		{SessionID: "it-session", Page: "/rooms", EventType: model.EventPageExit, Timestamp: json.RawMessage(`"not a time"`)},
	}

	for _, ev := range events {
		resp, err := c.LogSession(context.Background(), ev)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Success bool   `json:"success"`
			ID      string `json:"id"`
		}
		require.NoError(t, resp.DecodeJSON(&body))
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.ID)
	}

	assert.Equal(t, int64(len(events)), mongo.CountWhere(t, testutil.VisitorSessionsCollection, bson.M{"sessionId": "it-session"}))

	var first model.VisitorSession
	mongo.FindOne(t, testutil.VisitorSessionsCollection, bson.M{"sessionId": "it-session", "page": "/"}, &first)
	assert.Equal(t, int64(1746095400000), first.Timestamp.UnixMilli())
	assert.NotEmpty(t, first.IP)
}
