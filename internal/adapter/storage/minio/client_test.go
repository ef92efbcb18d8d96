package minio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", endpointURL("localhost:9000", false))
	assert.Equal(t, "https://minio.local", endpointURL("minio.local", true))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/photo-archive/unsplash-photos/abc",
		ObjectURL("https://cdn.example.com/", "photo-archive", "unsplash-photos/abc"),
	)
}
