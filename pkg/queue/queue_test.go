package queue

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmail(t *testing.T) {
	want := EmailPayload{NotificationID: uuid.New(), RecipientEmail: "a@example.com", Subject: "hello", Body: "body"}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := (&Job{Type: JobTypeEmail, Payload: raw}).DecodeEmail()
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	_, err = (&Job{Type: "recording_upload", Payload: raw}).DecodeEmail()
	assert.Error(t, err)

	_, err = (&Job{Type: JobTypeEmail, Payload: json.RawMessage(`[`)}).DecodeEmail()
	assert.Error(t, err)
}
