package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProfilePicsFolder est le préfixe des clés des photos de profil.
const ProfilePicsFolder = "profile_pics"

type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store résout et libère les photos de profil stockées sur S3.
type S3Store struct {
	client objectDeleter
	bucket string
	region string
}

func NewS3Store(ctx context.Context, bucket, region, accessKey, secretKey string) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("chargement config AWS: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Key construit la clé d'une photo de profil à partir d'un nom de fichier.
func Key(filename string) string {
	return fmt.Sprintf("%s/%s", ProfilePicsFolder, strings.TrimPrefix(filename, "/"))
}

// URL retourne l'URL publique d'une clé, vide si aucune photo.
func (s *S3Store) URL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("erreur suppression S3 : %w", err)
	}
	return nil
}
