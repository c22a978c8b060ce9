package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"job-hunter-go/internal/types"
)

// ProfileStore 主档案的JSON文件存储
// 单文件单写者：读写互斥锁串行化并发访问，写入走临时文件加原子重命名
type ProfileStore struct {
	path string
	mu   sync.RWMutex
}

// NewProfileStore 创建主档案存储
func NewProfileStore(path string) (*ProfileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("档案路径不能为空")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建档案目录失败: %w", err)
	}
	return &ProfileStore{path: path}, nil
}

// Path 返回档案文件路径
func (s *ProfileStore) Path() string {
	return s.path
}

// Exists 档案文件是否已存在
func (s *ProfileStore) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.path)
	return err == nil
}

// Load 读取完整主档案
// 文件不存在时返回 (nil, nil)，首次上传走这条路
func (s *ProfileStore) Load() (*types.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Update 在互斥锁内完成整个读-改-写序列
// fn拿到当前档案（可能为nil）并返回要保存的新档案
// 并发上传在这里串行化，后来者基于前一次的结果继续改
func (s *ProfileStore) Update(fn func(*types.CandidateProfile) (*types.CandidateProfile, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	updated, err := fn(current)
	if err != nil {
		return err
	}
	return s.save(updated)
}

func (s *ProfileStore) load() (*types.CandidateProfile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取档案文件失败: %w", err)
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("档案文件损坏: %w", err)
	}
	return &profile, nil
}

// Save 原子写入完整主档案
// 先写同目录临时文件再重命名，崩溃时旧档案保持完好
func (s *ProfileStore) Save(profile *types.CandidateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(profile)
}

func (s *ProfileStore) save(profile *types.CandidateProfile) error {
	if profile == nil {
		return fmt.Errorf("档案不能为空")
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化档案失败: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("替换档案文件失败: %w", err)
	}
	return nil
}
