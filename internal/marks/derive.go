// Package marks 实现评分派生计算与录入状态机。
//
// 这是整个控制台里唯一有业务规则的部分，其余均为网络与展示胶水，
// 因此规则在此处集中成纯函数，渲染与保存路径不再各自重复判断。
package marks

// Derived 由三个评委分派生出的汇总值
// 三个字段要么同时有值，要么同时为 nil（无任何正分时）
type Derived struct {
	Total    *float64
	Average  *float64
	OutOf100 *float64
}

// Derive 计算总分、均分与百分制分
//
// 规则（与后端录入口径一致）：
//   - 只统计非空且 > 0 的评委分；0 分与未录入等价。
//     这一口径继承自历史数据，真实的 0 分无法与未评分区分，
//     改动需先与业务方确认，当前保持兼容
//   - 均分按实际给分的评委数平均，而不是固定除以 3
//   - maxMarks 非 100 时按比例折算为百分制
//   - 不做范围校验：超出 maxMarks 的分数照常计算，由后端或操作员把关
//
// 纯函数，幂等，每次输入变更时重复调用是安全的
func Derive(judge1, judge2, judge3 *float64, maxMarks float64) Derived {
	var total float64
	count := 0
	for _, j := range []*float64{judge1, judge2, judge3} {
		if j != nil && *j > 0 {
			total += *j
			count++
		}
	}

	if count == 0 {
		return Derived{}
	}

	average := total / float64(count)
	outOf100 := average
	if maxMarks != 100 {
		outOf100 = average / maxMarks * 100
	}

	return Derived{
		Total:    &total,
		Average:  &average,
		OutOf100: &outOf100,
	}
}
