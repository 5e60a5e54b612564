package model

// LessonSet 按技能档位分层的课文内容
// swagger:model LessonSet
type LessonSet struct {
	Beginner     string `json:"beginner"`
	Intermediate string `json:"intermediate"`
	Expert       string `json:"expert"`
}

// CodeSample 主题附带的示例代码
// swagger:model CodeSample
type CodeSample struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Source   string `json:"source"`
}

// Topic 内容目录中的一个学习主题。对进度引擎而言目录是只读的，
// 进度记录以 Slug 作为主题标识。
// swagger:model Topic
type Topic struct {
	BaseModel
	Slug          string       `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title         string       `gorm:"size:200;not null" json:"title"`
	Category      string       `gorm:"size:100;index" json:"category"`
	Tags          []string     `gorm:"serializer:json;type:json" json:"tags"`
	EstimatedTime int          `json:"estimatedTime"` // 预计学习时长（分钟）
	Difficulty    string       `gorm:"size:20" json:"difficulty"`
	Lessons       LessonSet    `gorm:"serializer:json;type:json" json:"lessons"`
	CodeSamples   []CodeSample `gorm:"serializer:json;type:json" json:"codeSamples"`
	AssetURL      string       `gorm:"size:255" json:"assetUrl,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}

// TopicMeta 对外暴露的主题元信息
// swagger:model TopicMeta
type TopicMeta struct {
	ID            uint     `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	EstimatedTime int      `json:"estimatedTime"`
}

func (t *Topic) Meta() TopicMeta {
	return TopicMeta{
		ID:            t.ID,
		Slug:          t.Slug,
		Title:         t.Title,
		Category:      t.Category,
		Tags:          t.Tags,
		EstimatedTime: t.EstimatedTime,
	}
}
