package storage

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, bucket, prefix string) *S3Service {
	t.Helper()
	client := s3.New(s3.Options{Region: "us-east-1"})
	return NewS3Service(client, bucket, prefix)
}

func TestObjectKey(t *testing.T) {
	svc := newTestService(t, "cars", "car-images")
	assert.Equal(t, "car-images/car-1.png", svc.objectKey("car-1.png"))
	assert.Equal(t, "car-images/car-1.png", svc.objectKey("/car-1.png/"))

	noPrefix := newTestService(t, "cars", "")
	assert.Equal(t, "car-1.png", noPrefix.objectKey("car-1.png"))
}

func TestExtractKey(t *testing.T) {
	svc := newTestService(t, "cars", "car-images")

	key, err := svc.extractKey("s3://cars/car-images/car-1.png")
	require.NoError(t, err)
	assert.Equal(t, "car-images/car-1.png", key)

	for _, location := range []string{
		"http://example.com/car-1.png",
		"s3://",
		"s3://cars",
		"s3://cars/",
		"s3://other-bucket/car-images/car-1.png",
		"",
	} {
		_, err := svc.extractKey(location)
		assert.Error(t, err, "location %q", location)
	}
}

func TestUploadLocationRoundTrip(t *testing.T) {
	svc := newTestService(t, "cars", "car-images")

	key, err := svc.extractKey("s3://cars/" + svc.objectKey("car-7.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "car-images/car-7.jpg", key)
}
