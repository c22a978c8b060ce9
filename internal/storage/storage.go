package storage

import (
	"fmt"
	"log"

	"job-hunter-go/internal/config"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	// 主档案JSON文件
	Profile *ProfileStore

	// 岗位SQLite数据库
	Jobs *JobStore
}

// NewStorage 创建存储管理器
// 两个存储都是本地文件，任一初始化失败都视为致命错误
func NewStorage(cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var err error

	storage.Profile, err = NewProfileStore(cfg.Data.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("初始化档案存储失败: %w", err)
	}
	log.Printf("档案存储初始化成功: %s", cfg.Data.ProfilePath)

	storage.Jobs, err = NewJobStore(cfg.Data.JobsDBPath)
	if err != nil {
		return nil, fmt.Errorf("初始化岗位数据库失败: %w", err)
	}
	log.Printf("岗位数据库初始化成功: %s", cfg.Data.JobsDBPath)

	return storage, nil
}

// Close 关闭所有存储连接
func (s *Storage) Close() {
	if s.Jobs != nil {
		if err := s.Jobs.Close(); err != nil {
			log.Printf("关闭岗位数据库失败: %v", err)
		}
	}
}
