package database

import (
	"fmt"
	"log"

	"github.com/aelied/structureality-server/internal/config"
	"github.com/aelied/structureality-server/internal/model"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	// clientFoundRows: RowsAffected 统计匹配行而不是变更行，
	// 否则无变化的 UPDATE 会被仓储层误判为用户不存在
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local&clientFoundRows=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 执行建表与默认数据填充，测试库也复用这里的逻辑
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Lesson{},
		&model.Quiz{},
		&model.ScenarioConfig{},
	)
	if err != nil {
		return err
	}

	// 默认场景配置（客户端在主题没有配置时的回退值）
	var count int64
	db.Model(&model.ScenarioConfig{}).Count(&count)
	if count == 0 {
		defaultTopics := []string{"Arrays", "Queue", "Stacks", "LinkedLists", "Trees", "Graphs"}
		for _, topic := range defaultTopics {
			db.Create(&model.ScenarioConfig{
				TopicName: topic,
				Scenarios: datatypes.NewJSONSlice(model.DefaultScenarios),
			})
		}
	}

	return nil
}
