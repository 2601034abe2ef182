//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"regdesk/pkg/testutil/containers"
)

func TestKafkaSinkDeliversToTopic(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	const topic = "regdesk.registrations.test"
	rp.CreateTopic(t, topic)

	sink, err := NewKafkaSink([]string{rp.Broker}, topic)
	require.NoError(t, err)
	defer sink.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sent := Event{
		Type:           TypeAccepted,
		Scheme:         "khel-mahakumbh",
		RegistrationID: "KMK-UT-2026-000001",
		At:             time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sink.Deliver(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())

	var records []*kgo.Record
	fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })
	require.Len(t, records, 1)
	assert.Equal(t, "khel-mahakumbh", string(records[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, sent.RegistrationID, got.RegistrationID)
	assert.True(t, sent.At.Equal(got.At))
}
