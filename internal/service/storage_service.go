package service

import (
	"context"
	"errors"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/logger"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider is a flat key/blob store. Blobs are never served directly;
// Open reports a missing key as os.ErrNotExist.
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst := filepath.Join(p.Config.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	return err
}

func (p *LocalStorageProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(p.Config.LocalPath, filepath.FromSlash(key)))
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(p.Config.LocalPath, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(ctx context.Context, cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Open stats the object first; GetObject alone defers a missing key error
// to the first Read.
func (p *MinioStorageProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := p.Client.GetObject(ctx, p.Config.MinioBucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("object %s: %w", key, os.ErrNotExist)
		}
		return nil, err
	}
	return obj, nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, key, minio.RemoveObjectOptions{})
}

// CodeSubmission is the source a student submitted for one code question.
type CodeSubmission struct {
	QuestionID string `json:"questionId"`
	Language   string `json:"language"`
	Source     string `json:"source"`
}

type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(ctx context.Context, cfg *config.StorageConfig) (*StorageService, error) {
	switch cfg.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &StorageService{Provider: p}, nil
	case util.StorageLocal, "":
		return &StorageService{Provider: &LocalStorageProvider{Config: cfg}}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func codeAnswerKey(examID, studentID, batch, questionID string) string {
	return path.Join("code-answers", examID, studentID, batch, questionID)
}

// SaveCodeAnswers uploads every submission under a fresh batch prefix, so a
// resubmission never overwrites the blobs of the stored result. On error the
// blobs written so far are removed.
func (s *StorageService) SaveCodeAnswers(ctx context.Context, examID, studentID string, subs []CodeSubmission) ([]model.CodeAnswer, error) {
	if len(subs) == 0 {
		return nil, nil
	}
	batch := model.GenerateUUID()
	answers := make([]model.CodeAnswer, 0, len(subs))
	for _, sub := range subs {
		key := codeAnswerKey(examID, studentID, batch, sub.QuestionID)
		if err := s.Provider.Upload(ctx, key, strings.NewReader(sub.Source), int64(len(sub.Source)), "text/plain; charset=utf-8"); err != nil {
			s.DeleteCodeAnswers(ctx, answers)
			return nil, fmt.Errorf("store code answer for %s: %w", sub.QuestionID, err)
		}
		answers = append(answers, model.CodeAnswer{
			QuestionID: sub.QuestionID,
			Language:   sub.Language,
			StorageKey: key,
		})
	}
	return answers, nil
}

// DeleteCodeAnswers is best effort; failures are only logged.
func (s *StorageService) DeleteCodeAnswers(ctx context.Context, answers []model.CodeAnswer) {
	for _, a := range answers {
		if err := s.Provider.Delete(ctx, a.StorageKey); err != nil {
			logger.Log.Warn("Failed to delete code answer", zap.String("key", a.StorageKey), zap.Error(err))
		}
	}
}

func (s *StorageService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.Provider.Open(ctx, key)
}
