package feast

import (
	"context"
	"testing"

	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// TestGrpcClient_GetOnlineFeatures 需要连接真实的 Feast 服务器才能运行。
func TestGrpcClient_GetOnlineFeatures(t *testing.T) {
	t.Skip("需要连接真实的 Feast 服务器才能运行")

	ctx := context.Background()

	client, err := NewGrpcClient("localhost", 6565, "drillkit")
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer client.Close()

	req := &GetOnlineFeaturesRequest{
		Features: []string{
			"player_profile:position",
			"player_profile:experience_level",
		},
		EntityRows: []map[string]interface{}{
			{"player_id": "amy"},
			{"player_id": "ben"},
		},
	}

	resp, err := client.GetOnlineFeatures(ctx, req)
	if err != nil {
		t.Fatalf("获取特征失败: %v", err)
	}
	if len(resp.FeatureVectors) != 2 {
		t.Errorf("期望 2 个特征向量，实际得到 %d 个", len(resp.FeatureVectors))
	}
}

func TestToSDKValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"string", "striker"},
		{"int", 3},
		{"int64", int64(3)},
		{"float64", 3.14},
		{"bool", true},
		{"[]byte", []byte("x")},
		{"fallback", struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toSDKValue(tt.input); got == nil {
				t.Error("转换结果不应该为 nil")
			}
		})
	}
}

func TestFromSDKValue(t *testing.T) {
	tests := []struct {
		name  string
		input *feasttypes.Value
		want  interface{}
	}{
		{"nil", nil, nil},
		{"string", &feasttypes.Value{Val: &feasttypes.Value_StringVal{StringVal: "striker"}}, "striker"},
		{"int64 to float64", &feasttypes.Value{Val: &feasttypes.Value_Int64Val{Int64Val: 4}}, float64(4)},
		{"double", &feasttypes.Value{Val: &feasttypes.Value_DoubleVal{DoubleVal: 2.5}}, 2.5},
		{"bool true", &feasttypes.Value{Val: &feasttypes.Value_BoolVal{BoolVal: true}}, float64(1)},
		{"bytes", &feasttypes.Value{Val: &feasttypes.Value_BytesVal{BytesVal: []byte("ok")}}, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromSDKValue(tt.input); got != tt.want {
				t.Errorf("fromSDKValue = %v, want %v", got, tt.want)
			}
		})
	}
}
