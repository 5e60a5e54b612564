package service

import (
	"context"
	"devpath_backend/internal/model"
	"devpath_backend/internal/repository"
	"devpath_backend/pkg/logger"
	"encoding/json"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	topicCacheKeyPrefix = "topic:"
	topicListCacheKey   = "topics:all"
	topicCacheTTL       = 10 * time.Minute
)

// ContentService 只读的主题目录，带可选的Redis读缓存。
// Redis 为 nil 时直接穿透到存储。
type ContentService struct {
	Topics  repository.TopicRepository
	Storage *StorageService
	Redis   *redis.Client
}

func NewContentService(topics repository.TopicRepository, storage *StorageService, rdb *redis.Client) *ContentService {
	return &ContentService{
		Topics:  topics,
		Storage: storage,
		Redis:   rdb,
	}
}

// GetTopics 列出目录。无筛选条件时走列表缓存。
func (s *ContentService) GetTopics(ctx context.Context, category, tag string) ([]model.Topic, error) {
	cacheable := category == "" && tag == ""

	if cacheable && s.Redis != nil {
		val, err := s.Redis.Get(ctx, topicListCacheKey).Result()
		if err == nil {
			var topics []model.Topic
			if err := json.Unmarshal([]byte(val), &topics); err == nil {
				return topics, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("topic list cache read failed", zap.Error(err))
		}
	}

	topics, err := s.Topics.FindAll(category, tag)
	if err != nil {
		return nil, err
	}

	if cacheable && s.Redis != nil {
		if data, err := json.Marshal(topics); err == nil {
			s.Redis.Set(ctx, topicListCacheKey, data, topicCacheTTL)
		}
	}

	return topics, nil
}

func (s *ContentService) GetTopicBySlug(ctx context.Context, slug string) (*model.Topic, error) {
	cacheKey := topicCacheKeyPrefix + slug

	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var topic model.Topic
			if err := json.Unmarshal([]byte(val), &topic); err == nil {
				return &topic, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("topic cache read failed", zap.String("slug", slug), zap.Error(err))
		}
	}

	topic, err := s.Topics.FindBySlug(slug)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(topic); err == nil {
			s.Redis.Set(ctx, cacheKey, data, topicCacheTTL)
		}
	}

	return topic, nil
}

// GetTopicMeta 外部协作方约定的元信息读取
func (s *ContentService) GetTopicMeta(ctx context.Context, slug string) (*model.TopicMeta, error) {
	topic, err := s.GetTopicBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	meta := topic.Meta()
	return &meta, nil
}

// UpsertTopic 内容维护入口，写入后失效相关缓存
func (s *ContentService) UpsertTopic(ctx context.Context, topic *model.Topic) error {
	if err := s.Topics.Upsert(topic); err != nil {
		return err
	}
	s.invalidate(ctx, topic.Slug)
	return nil
}

// UploadTopicAsset 上传主题附件（示意图、示例文件）并回写URL
func (s *ContentService) UploadTopicAsset(ctx context.Context, slug string, file *multipart.FileHeader) (string, error) {
	topic, err := s.Topics.FindBySlug(slug)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	filename := "topics/" + slug + "/" + time.Now().Format("20060102150405") + "_" +
		strings.ReplaceAll(strings.TrimSuffix(file.Filename, ext), " ", "-") + ext

	url, err := s.Storage.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	topic.AssetURL = url
	if err := s.Topics.Upsert(topic); err != nil {
		return "", err
	}
	s.invalidate(ctx, slug)

	return url, nil
}

func (s *ContentService) invalidate(ctx context.Context, slug string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, topicListCacheKey, topicCacheKeyPrefix+slug)
}
