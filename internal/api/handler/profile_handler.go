package handler

import (
	"context"
	"fmt"
	"time"

	"job-hunter-go/internal/logger"
	"job-hunter-go/internal/storage"
	"job-hunter-go/internal/types"
)

// ProfileHandler 主档案查询与局部更新
type ProfileHandler struct {
	store *storage.Storage
}

// NewProfileHandler 创建档案处理器
func NewProfileHandler(store *storage.Storage) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// GetProfile 返回完整主档案
// 档案未建立时返回 (nil, nil)，由路由层转成404
func (h *ProfileHandler) GetProfile(ctx context.Context) (*types.CandidateProfile, error) {
	return h.store.Profile.Load()
}

// UpdatePersonal 局部更新个人信息，空字段不覆盖已有值
// 读-改-写整体走存储层的Update，与并发上传串行化
func (h *ProfileHandler) UpdatePersonal(ctx context.Context, update types.PersonalInfo) (*types.CandidateProfile, error) {
	var updated *types.CandidateProfile
	err := h.store.Profile.Update(func(profile *types.CandidateProfile) (*types.CandidateProfile, error) {
		if profile == nil {
			return nil, fmt.Errorf("主档案尚未建立，请先上传简历")
		}

		if update.Name != "" {
			profile.Personal.Name = update.Name
		}
		if update.Email != "" {
			profile.Personal.Email = update.Email
		}
		if update.Phone != "" {
			profile.Personal.Phone = update.Phone
		}
		if update.Location != "" {
			profile.Personal.Location = update.Location
		}
		if update.LinkedIn != "" {
			profile.Personal.LinkedIn = update.LinkedIn
		}
		if update.Summary != "" {
			profile.Personal.Summary = update.Summary
		}
		profile.Meta.LastUpdated = time.Now().Format("2006-01-02")
		updated = profile
		return profile, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().Msg("个人信息已更新")
	return updated, nil
}
