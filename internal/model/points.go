package model

// TeamPoints 队伍积分榜中的一行（后端聚合计算，客户端只读）
type TeamPoints struct {
	TeamID               int      `json:"team_id"`
	TeamName             string   `json:"team_name"`
	TotalPoints          float64  `json:"total_points"`
	ProgramsParticipated int      `json:"programs_participated"`
	ProgramsWon          int      `json:"programs_won"`
	RecentAchievements   []string `json:"recent_achievements"`
}

// StudentPoints 学生个人积分（后端聚合计算，客户端只读）
type StudentPoints struct {
	StudentID   int     `json:"student_id"`
	StudentName string  `json:"student_name"`
	StudentCode string  `json:"student_code"`
	TeamName    string  `json:"team_name"`
	TotalPoints float64 `json:"total_points"`
}

// TeamEventDetails 单支队伍在某届赛事中的明细
type TeamEventDetails struct {
	TeamID      int                `json:"team_id"`
	TeamName    string             `json:"team_name"`
	TotalPoints float64            `json:"total_points"`
	Results     []TeamResultDetail `json:"results"`
	Members     []TeamMemberDetail `json:"members"`
}

// TeamResultDetail 队伍单项目成绩明细
type TeamResultDetail struct {
	ProgramID    int              `json:"program_id"`
	ProgramName  string           `json:"program_name"`
	Position     *int             `json:"position"`
	PointsEarned float64          `json:"points_earned"`
	Students     []StudentInTeams `json:"students"`
}

// StudentInTeams 项目成绩中关联的学生
type StudentInTeams struct {
	StudentName  string   `json:"student_name"`
	StudentCode  string   `json:"student_code"`
	TotalMarks   *float64 `json:"total_marks"`
	AverageMarks *float64 `json:"average_marks"`
}

// TeamMemberDetail 队伍成员及其累计积分
type TeamMemberDetail struct {
	StudentName       string  `json:"student_name"`
	StudentCode       string  `json:"student_code"`
	TotalPointsEarned float64 `json:"total_points_earned"`
}
