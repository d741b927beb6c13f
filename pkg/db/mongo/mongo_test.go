package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelbooking/pkg/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCollectionProvider_NotReady(t *testing.T) {
	p := NewCollectionProvider(client.NewClient(), "hotel_booking", "bookings")

	assert.False(t, p.Ready())
	coll, err := p.Collection()
	assert.Nil(t, coll)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestWithTimeout_NoParentDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
}

func TestWithTimeout_KeepsEarlierParentDeadline(t *testing.T) {
	parent, parentCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer parentCancel()

	ctx, cancel := WithTimeout(parent, time.Hour)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.True(t, time.Until(deadline) <= 50*time.Millisecond)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
}
