package repository

import (
	"devpath_backend/internal/model"
	"devpath_backend/internal/util"
	"errors"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// TopicRepository 只读为主的主题目录。进度引擎从不写目录，
// 管理端的 Upsert 仅用于内容维护。
type TopicRepository interface {
	FindAll(category, tag string) ([]model.Topic, error)
	FindBySlug(slug string) (*model.Topic, error)
	Upsert(topic *model.Topic) error
}

type GormTopicRepository struct {
	DB *gorm.DB
}

func NewGormTopicRepository(db *gorm.DB) *GormTopicRepository {
	return &GormTopicRepository{DB: db}
}

func (r *GormTopicRepository) FindAll(category, tag string) ([]model.Topic, error) {
	var topics []model.Topic
	query := r.DB.Model(&model.Topic{})

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if tag != "" {
		// tags 是JSON数组列
		query = query.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", tag)
	}

	err := query.Order("slug ASC").Find(&topics).Error
	return topics, err
}

func (r *GormTopicRepository) FindBySlug(slug string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.Where("slug = ?", slug).First(&topic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	return &topic, nil
}

func (r *GormTopicRepository) Upsert(topic *model.Topic) error {
	var existing model.Topic
	err := r.DB.Where("slug = ?", topic.Slug).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(topic).Error
	}
	if err != nil {
		return err
	}

	topic.ID = existing.ID
	topic.CreatedAt = existing.CreatedAt
	return r.DB.Save(topic).Error
}

// MemoryTopicRepository memory 驱动下的目录实现，与学习者内存存储配套
type MemoryTopicRepository struct {
	mu     sync.RWMutex
	topics map[string]*model.Topic
	nextID uint
}

func NewMemoryTopicRepository() *MemoryTopicRepository {
	return &MemoryTopicRepository{
		topics: make(map[string]*model.Topic),
		nextID: 1,
	}
}

func (r *MemoryTopicRepository) FindAll(category, tag string) ([]model.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var topics []model.Topic
	for _, t := range r.topics {
		if category != "" && t.Category != category {
			continue
		}
		if tag != "" && !containsTag(t.Tags, tag) {
			continue
		}
		topics = append(topics, *t)
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].Slug < topics[j].Slug })
	return topics, nil
}

func (r *MemoryTopicRepository) FindBySlug(slug string) (*model.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[slug]
	if !ok {
		return nil, util.ErrTopicNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *MemoryTopicRepository) Upsert(topic *model.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.topics[topic.Slug]; ok {
		topic.ID = existing.ID
		topic.CreatedAt = existing.CreatedAt
	} else {
		topic.ID = r.nextID
		r.nextID++
	}

	copied := *topic
	r.topics[topic.Slug] = &copied
	return nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
