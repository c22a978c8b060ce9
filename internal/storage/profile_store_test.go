package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-hunter-go/internal/types"
)

func newTestProfileStore(t *testing.T) *ProfileStore {
	t.Helper()
	store, err := NewProfileStore(filepath.Join(t.TempDir(), "data", "master_resume.json"))
	require.NoError(t, err)
	return store
}

func TestProfileStoreLoadMissing(t *testing.T) {
	store := newTestProfileStore(t)

	profile, err := store.Load()
	require.NoError(t, err, "文件不存在不是错误")
	assert.Nil(t, profile)
	assert.False(t, store.Exists())
}

func TestProfileStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestProfileStore(t)

	original := &types.CandidateProfile{
		Meta:     types.ProfileMeta{Version: "1.0", LastUpdated: "2026-08-29"},
		Personal: types.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Experience: []types.Position{
			{ID: "exp_001", Company: "Acme", Bullets: []types.Bullet{{ID: "bullet_001", Original: "Did X"}}},
		},
		Education: []types.Education{},
	}

	require.NoError(t, store.Save(original))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, original.Personal, loaded.Personal)
	assert.Equal(t, original.Experience[0].ID, loaded.Experience[0].ID)
}

func TestProfileStoreWritesPrettyJSON(t *testing.T) {
	store := newTestProfileStore(t)
	require.NoError(t, store.Save(&types.CandidateProfile{
		Personal: types.PersonalInfo{Name: "Jane"},
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"personal\"", "档案文件应是人可读的缩进JSON")
	assert.True(t, json.Valid(data))
}

func TestProfileStoreNoTempFileLeftover(t *testing.T) {
	store := newTestProfileStore(t)
	require.NoError(t, store.Save(&types.CandidateProfile{}))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "写入成功后目录里只应有档案文件本身")
}

func TestProfileStoreConcurrentAccess(t *testing.T) {
	store := newTestProfileStore(t)
	require.NoError(t, store.Save(&types.CandidateProfile{Meta: types.ProfileMeta{Version: "1.0"}}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(&types.CandidateProfile{Meta: types.ProfileMeta{Version: "1.0"}})
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			profile, err := store.Load()
			// 并发读到的永远是某个完整版本，不会是半截文件
			assert.NoError(t, err)
			if profile != nil {
				assert.Equal(t, "1.0", profile.Meta.Version)
			}
		}()
	}
	wg.Wait()
}

func TestProfileStoreUpdateReadModifyWrite(t *testing.T) {
	store := newTestProfileStore(t)

	err := store.Update(func(profile *types.CandidateProfile) (*types.CandidateProfile, error) {
		assert.Nil(t, profile, "首次Update应拿到nil档案")
		return &types.CandidateProfile{Personal: types.PersonalInfo{Name: "Jane"}}, nil
	})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Jane", loaded.Personal.Name)
}

func TestProfileStoreUpdateErrorLeavesFileUntouched(t *testing.T) {
	store := newTestProfileStore(t)
	require.NoError(t, store.Save(&types.CandidateProfile{Personal: types.PersonalInfo{Name: "Jane"}}))

	err := store.Update(func(profile *types.CandidateProfile) (*types.CandidateProfile, error) {
		return nil, os.ErrInvalid
	})
	require.Error(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Jane", loaded.Personal.Name, "回调失败时已有档案不应被改动")
}

func TestProfileStoreConcurrentUpdatesDontLoseWrites(t *testing.T) {
	store := newTestProfileStore(t)

	// 两个并发的读-改-写各自往档案里加一条经历，两条都必须留下来
	var wg sync.WaitGroup
	for _, company := range []string{"A-Co", "B-Co"} {
		wg.Add(1)
		go func(company string) {
			defer wg.Done()
			err := store.Update(func(profile *types.CandidateProfile) (*types.CandidateProfile, error) {
				if profile == nil {
					profile = &types.CandidateProfile{}
				}
				profile.Experience = append(profile.Experience, types.Position{Company: company})
				return profile, nil
			})
			assert.NoError(t, err)
		}(company)
	}
	wg.Wait()

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Experience, 2, "并发更新不允许丢失任何一方的写入")
	companies := []string{loaded.Experience[0].Company, loaded.Experience[1].Company}
	assert.ElementsMatch(t, []string{"A-Co", "B-Co"}, companies)
}

func TestProfileStoreRejectsNil(t *testing.T) {
	store := newTestProfileStore(t)
	assert.Error(t, store.Save(nil))
}
