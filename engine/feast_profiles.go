package engine

import (
	"context"
	"strings"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/feast"
	"github.com/pitchside/drillkit/pkg/conv"
)

// 球员画像的在线特征名。goals 是逗号分隔的字符串特征。
const (
	FeaturePosition   = "player:position"
	FeatureExperience = "player:experience_level"
	FeatureAge        = "player:age"
	FeatureGoals      = "player:goals"

	// DefaultEntityKey 是实体行中球员 ID 的键名。
	DefaultEntityKey = "player_id"
)

// FeastProfileSource 从 Feast 在线特征拉取球员画像。
// 调用方没有现成画像数据时使用；拉不到的用户不出现在结果中。
type FeastProfileSource struct {
	Client  feast.Client
	Project string

	// EntityKey 实体键名，为空取 DefaultEntityKey。
	EntityKey string
}

// Profiles 批量拉取画像。Client 未配置时返回 UNAVAILABLE 领域错误，
// 而不是空结果——调用方需要区分“没配置”和“没数据”。
func (s *FeastProfileSource) Profiles(ctx context.Context, userIDs []string) (map[string]*core.UserProfile, error) {
	if s.Client == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			"feast profile source: no client configured")
	}
	profiles := make(map[string]*core.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	entityKey := s.EntityKey
	if entityKey == "" {
		entityKey = DefaultEntityKey
	}
	entityRows := make([]map[string]interface{}, len(userIDs))
	for i, id := range userIDs {
		entityRows[i] = map[string]interface{}{entityKey: id}
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   []string{FeaturePosition, FeatureExperience, FeatureAge, FeatureGoals},
		EntityRows: entityRows,
		Project:    s.Project,
	})
	if err != nil {
		return nil, err
	}

	for i, fv := range resp.FeatureVectors {
		if i >= len(userIDs) {
			break
		}
		profile := profileFromFeatures(userIDs[i], fv.Values)
		if profile != nil {
			profiles[userIDs[i]] = profile
		}
	}
	return profiles, nil
}

// profileFromFeatures 把一行特征值组装为画像；全部特征缺失时返回 nil。
func profileFromFeatures(userID string, values map[string]interface{}) *core.UserProfile {
	if len(values) == 0 {
		return nil
	}
	profile := &core.UserProfile{UserID: userID}

	if v, ok := conv.ToString(values[FeaturePosition]); ok {
		profile.Position = v
	}
	if v, ok := conv.ToString(values[FeatureExperience]); ok {
		profile.ExperienceLevel = v
	}
	if v, ok := conv.ToInt(values[FeatureAge]); ok {
		profile.Age = v
	}
	if v, ok := conv.ToString(values[FeatureGoals]); ok && v != "" {
		for _, goal := range strings.Split(v, ",") {
			goal = strings.TrimSpace(goal)
			if goal != "" {
				profile.Goals = append(profile.Goals, goal)
			}
		}
	}
	return profile
}
