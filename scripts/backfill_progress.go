// 一次性脚本：给存量用户补齐进度文档里缺失的主题条目。
//
// 课程目录新增主题后，老用户的进度文档不会自动出现对应的键。
// 评分与统计流程本身容忍缺键，但客户端拉取进度时希望看到全量主题，
// 所以导入新课程后跑一次本脚本。
//
// 用法: go run scripts/backfill_progress.go
package main

import (
	"log"

	"github.com/aelied/structureality-server/internal/config"
	"github.com/aelied/structureality-server/internal/model"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/pkg/database"
	"github.com/aelied/structureality-server/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)

	topics, err := lessonRepo.DistinctTopics()
	if err != nil {
		log.Fatalf("读取主题列表失败: %v", err)
	}
	if len(topics) == 0 {
		log.Println("课程目录为空，无需补齐")
		return
	}

	users, err := userRepo.ListAll()
	if err != nil {
		log.Fatalf("读取用户列表失败: %v", err)
	}

	migrated := 0
	for i := range users {
		user := &users[i]
		progress := user.ProgressSnapshot()

		changed := false
		for _, topic := range topics {
			if _, ok := progress[topic]; !ok {
				progress[topic] = model.TopicProgress{}
				changed = true
			}
		}
		if !changed {
			continue
		}

		err := userRepo.UpdateFields(user.Username, map[string]interface{}{
			"progress": datatypes.NewJSONType(progress),
		})
		if err != nil {
			log.Printf("用户 %s 补齐失败: %v", user.Username, err)
			continue
		}
		migrated++
	}

	log.Printf("补齐完成: %d/%d 个用户有变更", migrated, len(users))
}
