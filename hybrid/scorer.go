package hybrid

import (
	"math"
	"strings"
)

// 融合权重与百分比映射的参数。
const (
	// factorWeight/contentWeight 按 0.7/0.3 加权融合两路 1–5 评分。
	factorWeight  = 0.7
	contentWeight = 0.3

	// 百分比映射：先归一化到 [0,1]，再按置信度向中性值 0.5 收缩，
	// 最后线性映射到 [15, 100]。
	percentageScale  = 85.0
	percentageOffset = 15.0
	neutralScore     = 0.5
)

// 推荐理由的触发阈值。
const (
	strongSignal   = 4.0
	moderateSignal = 3.5
	highConfidence = 0.8
	lowConfidence  = 0.5

	maxReasonClauses = 2
	reasonSeparator  = " • "
)

// Score 是一次融合评分的完整结果：各分量、融合值与展示用的匹配百分比。
type Score struct {
	Factorization float64
	Content       float64
	Confidence    float64
	Hybrid        float64

	// MatchPercentage 落在 [0, 100]，低置信度的预测被压向中间值。
	MatchPercentage int
}

// Scorer 把因子分解预测与内容评分融合为一个匹配百分比。
//
// 算法流程:
//  1. hybrid = 0.7*factorization + 0.3*content（两路都在 1–5 量纲）
//  2. 归一化到 [0,1] 后按置信度收缩: adjusted = norm*conf + 0.5*(1-conf)
//  3. 线性映射到百分比: adjusted*85 + 15，截断到 [0,100]
//
// 工程特征: 无内部状态，零值即可用。
type Scorer struct{}

// Combine 融合一对评分与其置信度。输入超出 1–5 量纲时不纠错，
// 只在最终百分比处截断。
func (s *Scorer) Combine(factorization, content, confidence float64) Score {
	hybrid := factorWeight*factorization + contentWeight*content
	normalized := (hybrid - 1.0) / 4.0
	adjusted := normalized*confidence + neutralScore*(1.0-confidence)
	percentage := int(math.Round(adjusted*percentageScale + percentageOffset))
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return Score{
		Factorization:   factorization,
		Content:         content,
		Confidence:      confidence,
		Hybrid:          hybrid,
		MatchPercentage: percentage,
	}
}

// Reason 为一次融合评分生成简短的推荐理由：按信号强度收集候选短语，
// 最多保留前两条，用 " • " 连接。任何信号都不够强时给出兜底文案。
func (s *Scorer) Reason(sc Score) string {
	var clauses []string
	switch {
	case sc.Factorization > strongSignal:
		clauses = append(clauses, "Players with similar preferences loved this")
	case sc.Factorization > moderateSignal:
		clauses = append(clauses, "Based on your training patterns")
	}
	switch {
	case sc.Content > strongSignal:
		clauses = append(clauses, "Perfect match for your goals")
	case sc.Content > moderateSignal:
		clauses = append(clauses, "Aligns with your position and experience")
	}
	switch {
	case sc.Confidence > highConfidence:
		clauses = append(clauses, "High confidence recommendation")
	case sc.Confidence < lowConfidence:
		clauses = append(clauses, "New exercise worth exploring")
	}
	if len(clauses) == 0 {
		return "Recommended for your development"
	}
	if len(clauses) > maxReasonClauses {
		clauses = clauses[:maxReasonClauses]
	}
	return strings.Join(clauses, reasonSeparator)
}
