package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 示例：
//   var s core.Store = NewMemoryStore()
//   var kv core.KeyValueStore = NewMemoryStore()
//
// MemoryStore 适合测试与单机原型；RedisStore 适合多实例共享
// 会话记录与画像快照的部署形态。

import "sort"

type scoredMember struct {
	member string
	score  float64
}

// rankedMembers 是两个后端共用的 ZRange 语义：score 降序、
// 同分按 member 升序（保证排行可重复），start/stop 裁剪规则与 Redis 一致。
func rankedMembers(pairs []scoredMember, start, stop int64) []string {
	if len(pairs) == 0 {
		return nil
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].member < pairs[j].member
	})

	if start < 0 {
		start = 0
	}
	if stop < 0 || stop >= int64(len(pairs)) {
		stop = int64(len(pairs)) - 1
	}
	if start > stop {
		return nil
	}

	result := make([]string, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		result = append(result, pairs[i].member)
	}
	return result
}
