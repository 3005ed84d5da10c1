package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
)

type fakeDeleter struct {
	inputs []*s3.DeleteObjectInput
	err    error
}

func (f *fakeDeleter) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	return &s3.DeleteObjectOutput{}, f.err
}

func TestURL(t *testing.T) {
	s := &S3Store{bucket: "bookhub-media", region: "eu-west-3"}

	assert.Equal(t, "https://bookhub-media.s3.eu-west-3.amazonaws.com/profile_pics/u.png", s.URL(Key("u.png")))
	assert.Equal(t, "", s.URL(""))
	assert.Equal(t, "profile_pics/a.jpg", Key("/a.jpg"))
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		clientErr error
		calls     int
		wantErr   bool
	}{
		{name: "Objet supprimé", key: "profile_pics/u.png", calls: 1},
		{name: "Clé vide ignorée", key: "", calls: 0},
		{name: "Erreur S3", key: "profile_pics/u.png", clientErr: errors.New("access denied"), calls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeDeleter{err: tt.clientErr}
			s := &S3Store{client: client, bucket: "bookhub-media", region: "eu-west-3"}

			err := s.Delete(context.Background(), tt.key)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, client.inputs, tt.calls)
			if tt.calls > 0 {
				assert.Equal(t, "bookhub-media", aws.ToString(client.inputs[0].Bucket))
				assert.Equal(t, tt.key, aws.ToString(client.inputs[0].Key))
			}
		})
	}
}
