package feast

import (
	"context"
	"time"
)

// Client 是 Feast Feature Store 的客户端接口。
//
// drillkit 用它拉取球员画像类在线特征（位置、经验等级、训练目标等），
// 供 engine.FeastProfileSource 组装 core.UserProfile。
//
// Feast 是一个开源的 Feature Store，提供：
//   - 在线特征存储（Online Store）：用于实时推荐
//   - 离线特征存储（Offline Store）：用于训练数据
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时推荐）
	//
	// 参数：
	//   - features: 特征名称列表，例如 ["player_profile:position", "player_profile:experience_level"]
	//   - entityRows: 实体行，例如 [{"player_id": "amy"}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["player_profile:position", "player_profile:goals"]
	Features []string

	// EntityRows 实体行，例如 [{"player_id": "amy"}, {"player_id": "ben"}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，为空时取客户端默认值）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientConfig 客户端配置
type ClientConfig struct {
	Endpoint string
	Project  string
	Timeout  time.Duration
	Auth     *AuthConfig
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Type 认证类型，目前支持 "static"（静态 Token）
	Type  string
	Token string
}

// ClientOption 客户端配置选项
type ClientOption func(*ClientConfig)

// WithTimeout 配置选项：设置超时时间
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAuth 配置选项：设置认证信息
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}
