package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pitchside/drillkit/core"
)

// Store 键约定。
const (
	DefaultSessionPrefix = "drill:sessions:" // + userID → JSON []core.SessionRecord
	DefaultProfilePrefix = "drill:profile:"  // + userID → JSON core.UserProfile
	DefaultCatalogKey    = "drill:catalog"   // → JSON map[string]*core.Exercise
)

// Dataset 是一次推荐请求需要的全部输入。
type Dataset struct {
	Records  []core.SessionRecord
	Profiles map[string]*core.UserProfile
	Catalog  map[string]*core.Exercise
}

// StoreLoader 从任意 core.Store 读取 JSON 文档形式的训练数据。
// 会话按用户分键存储，目录整体存一个键。
//
// 工程特征: Load 内部三路并行（errgroup），单键缺失不视为错误。
type StoreLoader struct {
	Store core.Store

	// 键前缀，为空时取 Default* 常量。
	SessionPrefix string
	ProfilePrefix string
	CatalogKey    string
}

func (l *StoreLoader) sessionPrefix() string {
	if l.SessionPrefix == "" {
		return DefaultSessionPrefix
	}
	return l.SessionPrefix
}

func (l *StoreLoader) profilePrefix() string {
	if l.ProfilePrefix == "" {
		return DefaultProfilePrefix
	}
	return l.ProfilePrefix
}

func (l *StoreLoader) catalogKey() string {
	if l.CatalogKey == "" {
		return DefaultCatalogKey
	}
	return l.CatalogKey
}

// Load 并行拉取 userIDs 的会话与画像，以及训练项目录。
// 任一路存储失败则整体失败；键缺失只意味着该用户/目录没有数据。
func (l *StoreLoader) Load(ctx context.Context, userIDs []string) (*Dataset, error) {
	if l.Store == nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store loader: no store configured")
	}

	ds := &Dataset{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := l.LoadSessions(gctx, userIDs)
		if err != nil {
			return err
		}
		ds.Records = records
		return nil
	})
	g.Go(func() error {
		profiles, err := l.LoadProfiles(gctx, userIDs)
		if err != nil {
			return err
		}
		ds.Profiles = profiles
		return nil
	})
	g.Go(func() error {
		catalog, err := l.LoadCatalog(gctx)
		if err != nil {
			return err
		}
		ds.Catalog = catalog
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadSessions 批量读取多个用户的会话记录，按 userID 升序拼接，
// 保证相同输入得到确定的记录顺序。
func (l *StoreLoader) LoadSessions(ctx context.Context, userIDs []string) ([]core.SessionRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	sorted := append([]string(nil), userIDs...)
	sort.Strings(sorted)

	keys := make([]string, len(sorted))
	for i, id := range sorted {
		keys[i] = l.sessionPrefix() + id
	}
	blobs, err := l.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	var records []core.SessionRecord
	for _, key := range keys {
		blob, ok := blobs[key]
		if !ok {
			continue
		}
		var userRecords []core.SessionRecord
		if err := json.Unmarshal(blob, &userRecords); err != nil {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
				fmt.Sprintf("load sessions: corrupt document %s: %v", key, err))
		}
		records = append(records, userRecords...)
	}
	return records, nil
}

// LoadProfiles 批量读取球员画像，缺失的用户不出现在结果里。
func (l *StoreLoader) LoadProfiles(ctx context.Context, userIDs []string) (map[string]*core.UserProfile, error) {
	profiles := make(map[string]*core.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	keys := make([]string, len(userIDs))
	byKey := make(map[string]string, len(userIDs))
	for i, id := range userIDs {
		key := l.profilePrefix() + id
		keys[i] = key
		byKey[key] = id
	}
	blobs, err := l.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	for key, blob := range blobs {
		var profile core.UserProfile
		if err := json.Unmarshal(blob, &profile); err != nil {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
				fmt.Sprintf("load profiles: corrupt document %s: %v", key, err))
		}
		if profile.UserID == "" {
			profile.UserID = byKey[key]
		}
		profiles[byKey[key]] = &profile
	}
	return profiles, nil
}

// LoadCatalog 读取训练项目录；目录键不存在时返回空目录。
func (l *StoreLoader) LoadCatalog(ctx context.Context) (map[string]*core.Exercise, error) {
	blob, err := l.Store.Get(ctx, l.catalogKey())
	if core.IsStoreNotFound(err) {
		return map[string]*core.Exercise{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	catalog := make(map[string]*core.Exercise)
	if err := json.Unmarshal(blob, &catalog); err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("load catalog: corrupt document %s: %v", l.catalogKey(), err))
	}
	for id, ex := range catalog {
		if ex != nil && ex.ID == "" {
			ex.ID = id
		}
	}
	return catalog, nil
}
