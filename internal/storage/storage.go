// Package storage stores tool images behind a pluggable object-storage
// provider and resolves their public URLs.
package storage

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/casdoor/oss"
	"github.com/casdoor/oss/filesystem"
	"github.com/casdoor/oss/s3"
	"github.com/google/uuid"
)

type Config struct {
	Provider  string
	Folder    string
	BaseURL   string
	AccessID  string
	AccessKey string
	Region    string
	Bucket    string
	Endpoint  string
}

type Store struct {
	client  oss.StorageInterface
	baseURL string
}

func NewStore(cfg *Config) (*Store, error) {
	client, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[Storage] ✅ Using %s provider", providerName(cfg.Provider))
	return &Store{client: client, baseURL: cfg.BaseURL}, nil
}

func newProvider(cfg *Config) (oss.StorageInterface, error) {
	switch cfg.Provider {
	case "filesystem", "":
		return filesystem.New(cfg.Folder), nil
	case "s3", "aws-s3":
		return s3.New(&s3.Config{
			AccessID:  cfg.AccessID,
			AccessKey: cfg.AccessKey,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			ACL:       awss3.BucketCannedACLPublicRead,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

func providerName(provider string) string {
	if provider == "" {
		return "filesystem"
	}
	return provider
}

// UploadImage stores the file under a randomized name that preserves the
// original extension and returns the public URL. Name collisions are
// treated as negligible; there is no retry.
func (s *Store) UploadImage(originalName string, r io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	if _, err := s.client.Put(name, r); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return s.PublicURL(name), nil
}

// PublicURL resolves the stable public URL for a stored object. BaseURL
// takes precedence so the filesystem provider can be fronted by the API's
// own static route.
func (s *Store) PublicURL(name string) string {
	if s.baseURL != "" {
		return strings.TrimRight(s.baseURL, "/") + "/" + name
	}
	url, err := s.client.GetURL(name)
	if err != nil {
		return name
	}
	return url
}
