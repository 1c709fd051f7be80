package model

// MarkEntryRow 评分录入名单中的一行（个人项目为学生，团体项目为队伍代表）
//
// 评委分与派生分均为可空：后端未录入时为 null。
// position / points_earned 由后端排名算法计算，客户端只读；
// 保存成功后以重新拉取的名单为准
type MarkEntryRow struct {
	ID          int    `json:"id"`
	StudentName string `json:"student_name"`
	StudentCode string `json:"student_code"`
	ChestNumber *int   `json:"chest_number"`

	// 团体项目字段，个人项目时为零值
	TeamID          *int   `json:"team"`
	TeamName        string `json:"team_name"`
	TeamMemberCount int    `json:"team_member_count"`
	IsTeamBased     bool   `json:"is_team_based"`

	Judge1Marks *float64 `json:"judge1_marks"`
	Judge2Marks *float64 `json:"judge2_marks"`
	Judge3Marks *float64 `json:"judge3_marks"`

	TotalMarks    *float64 `json:"total_marks"`
	AverageMarks  *float64 `json:"average_marks"`
	MarksOutOf100 *float64 `json:"marks_out_of_100"`

	Position     *int    `json:"position"`
	PointsEarned float64 `json:"points_earned"`
	Comments     string  `json:"comments"`
}

// DisplayName 展示用参赛者名称，团体项目附加队伍标识
func (r *MarkEntryRow) DisplayName() string {
	if r.IsTeamBased && r.TeamName != "" {
		return r.StudentName + " & 队伍"
	}
	if r.StudentName == "" {
		return "未知参赛者"
	}
	return r.StudentName
}

// HasAnyJudgeMark 是否存在至少一个正分的评委分
// 0 分与未录入等价（沿用既有口径，见 internal/marks）
func (r *MarkEntryRow) HasAnyJudgeMark() bool {
	for _, j := range []*float64{r.Judge1Marks, r.Judge2Marks, r.Judge3Marks} {
		if j != nil && *j > 0 {
			return true
		}
	}
	return false
}

// HasAllJudgeMarks 三位评委是否都已给出正分
func (r *MarkEntryRow) HasAllJudgeMarks() bool {
	for _, j := range []*float64{r.Judge1Marks, r.Judge2Marks, r.Judge3Marks} {
		if j == nil || *j <= 0 {
			return false
		}
	}
	return true
}
