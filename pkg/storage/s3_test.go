package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageType(t *testing.T) {
	assert.True(t, ValidateImageType("image/png", "a.bin"))
	assert.True(t, ValidateImageType("", "photo.JPEG"))
	assert.False(t, ValidateImageType("video/mp4", "clip.mp4"))
	assert.False(t, ValidateImageType("", "script.sh"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/webp", ContentTypeFor("IMAGE/WEBP", "x"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("application/octet-stream", "x.jpg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("", "x"))
}

func TestEventImageKey(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	key := EventImageKey("../../etc/Banner.PNG", "image/png", now)
	assert.True(t, strings.HasPrefix(key, "events/2025/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.NotContains(t, key, "..")

	key = EventImageKey("upload", "image/gif", now)
	assert.True(t, strings.HasSuffix(key, ".gif"), key)
}
