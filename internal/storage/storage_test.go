package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type fakeGetter struct {
	gotBucket string
	gotKey    string
	out       *s3.GetObjectOutput
	err       error
}

func (f *fakeGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if params.Bucket != nil {
		f.gotBucket = *params.Bucket
	}
	if params.Key != nil {
		f.gotKey = *params.Key
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type timeoutError struct{ msg string }

func (e *timeoutError) Error() string   { return e.msg }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("empty bucket accepted")
	}
	cfg.Bucket = "activities"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestFullKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"no prefix", "", "abc/ride.fit", "abc/ride.fit"},
		{"prefix joined", "uploads", "abc/ride.fit", "uploads/abc/ride.fit"},
		{"trailing slash prefix", "uploads/", "abc/ride.fit", "uploads/abc/ride.fit"},
		{"leading slash key", "uploads", "/abc/ride.fit", "uploads/abc/ride.fit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{prefix: tt.prefix}
			if got := c.fullKey(tt.key); got != tt.want {
				t.Errorf("fullKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestDownloadReturnsObjectBytes(t *testing.T) {
	payload := []byte{0x0E, 0x10, 0x5D, 0x08}
	fake := &fakeGetter{
		out: &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(payload))},
	}
	c := &Client{api: fake, bucket: "activities", prefix: "uploads"}

	data, err := c.Download(context.Background(), "abc123/ride.fit")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Download() = %v, want %v", data, payload)
	}
	if fake.gotBucket != "activities" {
		t.Errorf("bucket = %q, want activities", fake.gotBucket)
	}
	if fake.gotKey != "uploads/abc123/ride.fit" {
		t.Errorf("key = %q, want uploads/abc123/ride.fit", fake.gotKey)
	}
}

func TestDownloadClassifiesMissingObject(t *testing.T) {
	fake := &fakeGetter{err: &s3types.NoSuchKey{}}
	c := &Client{api: fake, bucket: "activities"}

	_, err := c.Download(context.Background(), "gone.fit")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = false, err = %v", err)
	}

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("error is not a *StorageError: %v", err)
	}
	if storageErr.Op != "download" {
		t.Errorf("Op = %q, want download", storageErr.Op)
	}
	if storageErr.Key != "gone.fit" {
		t.Errorf("Key = %q, want gone.fit", storageErr.Key)
	}
}

func TestDownloadClassifiesAccessDenied(t *testing.T) {
	fake := &fakeGetter{err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}}
	c := &Client{api: fake, bucket: "activities"}

	_, err := c.Download(context.Background(), "secret.fit")
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("errors.Is(err, ErrAccessDenied) = false, err = %v", err)
	}
}

func TestDownloadClassifiesTimeout(t *testing.T) {
	fake := &fakeGetter{err: &timeoutError{msg: "dial tcp: i/o timeout"}}
	c := &Client{api: fake, bucket: "activities"}

	_, err := c.Download(context.Background(), "slow.fit")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("errors.Is(err, ErrTimeout) = false, err = %v", err)
	}
}

func TestDownloadClassifiesUnknownFailure(t *testing.T) {
	fake := &fakeGetter{err: errors.New("connection reset by peer")}
	c := &Client{api: fake, bucket: "activities"}

	_, err := c.Download(context.Background(), "ride.fit")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("errors.Is(err, ErrUnavailable) = false, err = %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("unknown failure classified as ErrNotFound")
	}
}

func TestStorageErrorFormat(t *testing.T) {
	err := NewStorageError(ErrNotFound, "download", "uploads/a/ride.fit", errors.New("NoSuchKey"))
	want := "download uploads/a/ride.fit: object not found: NoSuchKey"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := NewStorageError(ErrUnavailable, "download", "", errors.New("boom"))
	if bare.Error() != "download: storage unavailable: boom" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
