package model

// ── 项目类别 ──

const (
	CategoryHS      = "hs"      // 高中组
	CategoryHSS     = "hss"     // 高专组
	CategoryGeneral = "general" // 公开组
)

// Categories 全部类别，按展示顺序
var Categories = []string{CategoryHS, CategoryHSS, CategoryGeneral}

// Program 比赛项目 —— 由后端提供的上下文对象，客户端只读
type Program struct {
	ID              int    `json:"id"`
	Event           int    `json:"event"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	IsTeamBased     bool   `json:"is_team_based"`
	MaxParticipants int    `json:"max_participants"`
}

// PointsRule 返回该项目的积分规则说明（仅用于展示）
func (p *Program) PointsRule() string {
	if p.Category == CategoryHS || p.Category == CategoryHSS {
		return "5-3-1 (个人)"
	}
	if p.IsTeamBased {
		return "10-6-3 (团体)"
	}
	return "5-3-1 (个人)"
}
