package database

import (
	"devpath_backend/internal/config"
	"devpath_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.Learner{},
		&model.Topic{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 目录为空时写入一批默认主题，方便首次启动就能浏览
	var count int64
	db.Model(&model.Topic{}).Count(&count)
	if count == 0 {
		defaultTopics := []model.Topic{
			{
				Slug:          "go-basics",
				Title:         "Go 语言基础",
				Category:      "language",
				Tags:          []string{"go", "syntax"},
				EstimatedTime: 45,
				Difficulty:    "beginner",
				Lessons: model.LessonSet{
					Beginner:     "变量、常量与基本类型。",
					Intermediate: "切片、映射与方法集。",
					Expert:       "接口内部结构与逃逸分析。",
				},
				CodeSamples: []model.CodeSample{
					{Title: "Hello World", Language: "go", Source: "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n"},
				},
			},
			{
				Slug:          "sorting-algorithms",
				Title:         "排序算法",
				Category:      "algorithms",
				Tags:          []string{"sort", "complexity"},
				EstimatedTime: 60,
				Difficulty:    "intermediate",
				Lessons: model.LessonSet{
					Beginner:     "冒泡排序与选择排序。",
					Intermediate: "快速排序与归并排序。",
					Expert:       "外部排序与基数排序的取舍。",
				},
			},
			{
				Slug:          "http-servers",
				Title:         "HTTP 服务入门",
				Category:      "web",
				Tags:          []string{"http", "rest"},
				EstimatedTime: 50,
				Difficulty:    "beginner",
				Lessons: model.LessonSet{
					Beginner:     "请求、响应与路由。",
					Intermediate: "中间件与错误处理。",
					Expert:       "连接复用与超时治理。",
				},
			},
		}
		for _, t := range defaultTopics {
			db.Create(&t)
		}
	}

	return db, nil
}
