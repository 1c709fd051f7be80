// Package markentry 实现评分录入面板的会话逻辑。
//
// 面板独占持有当前项目的内存名单，其他视图不得修改；
// 跨视图协调（保存后积分榜刷新）只通过事件总线单向通知
package markentry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/midlajmidu/eventloo-sub001/internal/bus"
	"github.com/midlajmidu/eventloo-sub001/internal/dto"
	"github.com/midlajmidu/eventloo-sub001/internal/gateway"
	"github.com/midlajmidu/eventloo-sub001/internal/marks"
	"github.com/midlajmidu/eventloo-sub001/internal/model"
)

// ── 评分录入模块业务错误 ──

var (
	ErrNoProgramSelected = errors.New("尚未选择项目")
	ErrProgramNotFound   = errors.New("项目不存在")
	ErrRowNotFound       = errors.New("参赛者不在当前名单中")
	ErrRowLocked         = errors.New("该参赛者评分已保存，请先进入编辑模式")
	ErrRowNotLocked      = errors.New("仅已保存的评分可进入编辑模式")
	ErrNotEditing        = errors.New("当前没有处于编辑模式的参赛者")
	ErrSaveInFlight      = errors.New("该参赛者的保存请求仍在进行中")
	ErrInvalidJudge      = errors.New("评委编号必须在 1~3 之间")
)

// editSession 编辑模式的临时副本；取消时直接丢弃，不触碰原始行
type editSession struct {
	rowID   int
	scratch [3]*float64
}

// Panel 评分录入面板
//
// 并发模型：UI 调用都经由互斥锁串行化；网络往返期间释放锁，
// 同一参赛者的重复保存由 saving 表单飞拦截（对应前端的 per-id busy flag）。
// 不同参赛者的保存互不排序，跨进程的并发写以后端最后落库者为准
type Panel struct {
	gw     *gateway.Gateway
	bus    *bus.Bus
	logger *zap.Logger

	eventID  int
	maxMarks float64

	mu               sync.Mutex
	programs         []model.Program
	completed        map[int]bool // programID → 名单中已有人得分
	selectedCategory string
	selected         *model.Program
	rows             []model.MarkEntryRow
	savedInSession   map[int]bool // rowID → 本次会话保存过
	saving           map[int]bool // rowID → 保存请求在途
	editing          *editSession
}

// NewPanel 创建评分录入面板
func NewPanel(gw *gateway.Gateway, b *bus.Bus, logger *zap.Logger, eventID int, maxMarks float64) *Panel {
	return &Panel{
		gw:             gw,
		bus:            b,
		logger:         logger,
		eventID:        eventID,
		maxMarks:       maxMarks,
		completed:      make(map[int]bool),
		savedInSession: make(map[int]bool),
		saving:         make(map[int]bool),
	}
}

// MaxMarks 返回当前单评委满分
func (p *Panel) MaxMarks() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxMarks
}

// SetMaxMarks 调整单评委满分并重算所有未锁定行的派生值
func (p *Panel) SetMaxMarks(maxMarks float64) error {
	if maxMarks <= 0 {
		return fmt.Errorf("满分必须为正，实际 %v", maxMarks)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxMarks = maxMarks
	for i := range p.rows {
		row := &p.rows[i]
		if marks.StateOf(row, p.savedInSession[row.ID], false).Locked() {
			continue // 已保存行以后端数据为准
		}
		p.applyDerived(row)
	}
	return nil
}

// ────────────────────── 项目选择 ──────────────────────

// LoadPrograms 拉取赛事下全部项目，并探测每个项目是否已有人得分
// 单个项目探测失败只记日志，不影响其余项目
func (p *Panel) LoadPrograms(ctx context.Context) error {
	programs, err := p.gw.Programs.List(ctx, p.eventID)
	if err != nil {
		p.logger.Error("拉取项目列表失败", zap.Int("event_id", p.eventID), zap.Error(err))
		return err
	}

	completed := make(map[int]bool)
	for _, program := range programs {
		rows, probeErr := p.gw.MarkEntry.Participants(ctx, p.eventID, program.ID)
		if probeErr != nil {
			p.logger.Warn("探测项目完成度失败",
				zap.Int("program_id", program.ID), zap.Error(probeErr))
			continue
		}
		for i := range rows {
			if rows[i].HasAnyJudgeMark() {
				completed[program.ID] = true
				break
			}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.programs = programs
	p.completed = completed
	return nil
}

// SelectCategory 切换类别；清空当前项目选择与名单
func (p *Panel) SelectCategory(category string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectedCategory = category
	p.selected = nil
	p.rows = nil
	p.savedInSession = make(map[int]bool)
	p.editing = nil
}

// Programs 返回按类别与完成状态过滤后的项目列表
// showCompleted 为 true 时只看已完成，否则只看未完成
func (p *Panel) Programs(showCompleted bool) []model.Program {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []model.Program
	for _, program := range p.programs {
		if p.selectedCategory != "" && program.Category != p.selectedCategory {
			continue
		}
		if p.completed[program.ID] != showCompleted {
			continue
		}
		out = append(out, program)
	}
	return out
}

// ProgramProgress 返回(已完成项目数, 过滤后待录入项目数)
func (p *Panel) ProgramProgress() (completed, remaining int) {
	remaining = len(p.Programs(false))

	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.completed), remaining
}

// ────────────────────── 名单加载 ──────────────────────

// SelectProgram 选中项目并拉取录入名单
// 历史会话已保存的行由记录本身判定锁定，会话保存表只记录本次保存
func (p *Panel) SelectProgram(ctx context.Context, programID int) error {
	p.mu.Lock()
	var selected *model.Program
	for i := range p.programs {
		if p.programs[i].ID == programID {
			selected = &p.programs[i]
			break
		}
	}
	p.mu.Unlock()

	if selected == nil {
		return ErrProgramNotFound
	}

	rows, err := p.gw.MarkEntry.Participants(ctx, p.eventID, programID)
	if err != nil {
		p.logger.Error("拉取录入名单失败",
			zap.Int("program_id", programID), zap.Error(err))
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = selected
	p.rows = rows
	p.savedInSession = make(map[int]bool)
	p.saving = make(map[int]bool)
	p.editing = nil
	return nil
}

// Selected 返回当前选中的项目，未选中时为 nil
func (p *Panel) Selected() *model.Program {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return nil
	}
	program := *p.selected
	return &program
}

// Rows 返回当前名单的副本
func (p *Panel) Rows() []model.MarkEntryRow {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.MarkEntryRow, len(p.rows))
	copy(out, p.rows)
	return out
}

// Search 按姓名/学号/队名过滤名单（大小写不敏感的包含匹配）
func (p *Panel) Search(term string) []model.MarkEntryRow {
	if term == "" {
		return p.Rows()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	lower := strings.ToLower(term)
	var out []model.MarkEntryRow
	for _, row := range p.rows {
		if strings.Contains(strings.ToLower(row.StudentName), lower) ||
			strings.Contains(strings.ToLower(row.StudentCode), lower) ||
			strings.Contains(strings.ToLower(row.TeamName), lower) {
			out = append(out, row)
		}
	}
	return out
}

// RosterProgress 返回(已有成绩数, 待录入数, 完成百分比)
func (p *Panel) RosterProgress() (withMarks, pending, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.rows {
		row := &p.rows[i]
		state := p.stateOfLocked(row)
		if state == marks.StateSavedLocked || state == marks.StateEditing {
			withMarks++
		} else {
			pending++
		}
	}
	if len(p.rows) > 0 {
		percent = withMarks * 100 / len(p.rows)
	}
	return withMarks, pending, percent
}

// ────────────────────── 评分修改 ──────────────────────

// SetJudgeMark 修改某参赛者的单个评委分并立即重算派生值
// value 为 nil 表示清空；锁定行与编辑中的行拒绝直接修改
func (p *Panel) SetJudgeMark(rowID, judge int, value *float64) error {
	if judge < 1 || judge > 3 {
		return ErrInvalidJudge
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selected == nil {
		return ErrNoProgramSelected
	}
	row := p.rowByID(rowID)
	if row == nil {
		return ErrRowNotFound
	}

	switch p.stateOfLocked(row) {
	case marks.StateSavedLocked:
		return ErrRowLocked
	case marks.StateEditing:
		return ErrRowLocked // 编辑模式走 EditMark
	}

	switch judge {
	case 1:
		row.Judge1Marks = value
	case 2:
		row.Judge2Marks = value
	case 3:
		row.Judge3Marks = value
	}
	p.applyDerived(row)
	return nil
}

// State 返回某参赛者的录入状态
func (p *Panel) State(rowID int) (marks.EntryState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row := p.rowByID(rowID)
	if row == nil {
		return marks.StateEmpty, ErrRowNotFound
	}
	return p.stateOfLocked(row), nil
}

// ────────────────────── 保存 ──────────────────────

// Save 保存某参赛者的评分
//
// 成功路径：提交 → 重新拉取名单对账（排名/积分以后端为准）→
// 标记本次会话已保存 → 标记项目完成 → 发布 PointsUpdated。
// 失败路径：内存评分原样保留，错误返回给调用方，单飞标记清除，可手动重试
func (p *Panel) Save(ctx context.Context, rowID int) error {
	p.mu.Lock()
	if p.selected == nil {
		p.mu.Unlock()
		return ErrNoProgramSelected
	}
	row := p.rowByID(rowID)
	if row == nil {
		p.mu.Unlock()
		return ErrRowNotFound
	}
	if p.saving[rowID] {
		p.mu.Unlock()
		return ErrSaveInFlight
	}
	p.saving[rowID] = true

	programID := p.selected.ID
	payload := p.payloadLocked(row)
	hasAnyMarks := row.HasAnyJudgeMark()
	name := row.DisplayName()
	p.mu.Unlock()

	_, err := p.gw.MarkEntry.BulkUpdate(ctx, p.eventID, programID, []dto.MarkPayload{payload})
	if err != nil {
		p.logger.Error("保存评分失败",
			zap.Int("row_id", rowID), zap.String("participant", name), zap.Error(err))
		p.mu.Lock()
		delete(p.saving, rowID)
		p.mu.Unlock()
		return err
	}

	p.reconcile(ctx, programID)

	p.mu.Lock()
	p.savedInSession[rowID] = true
	if hasAnyMarks {
		p.completed[programID] = true
	}
	delete(p.saving, rowID)
	p.mu.Unlock()

	p.logger.Info("评分已保存",
		zap.Int("row_id", rowID), zap.String("participant", name),
		zap.Int("program_id", programID))
	p.bus.Publish(bus.PointsUpdated{EventID: p.eventID})
	return nil
}

// ────────────────────── 编辑模式 ──────────────────────

// StartEdit 对已锁定行进入编辑模式，预填三个评委分的可编辑副本
func (p *Panel) StartEdit(rowID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	row := p.rowByID(rowID)
	if row == nil {
		return ErrRowNotFound
	}
	if !p.stateOfLocked(row).Locked() {
		return ErrRowNotLocked
	}

	p.editing = &editSession{
		rowID:   rowID,
		scratch: [3]*float64{copyMark(row.Judge1Marks), copyMark(row.Judge2Marks), copyMark(row.Judge3Marks)},
	}
	return nil
}

// EditMark 修改编辑副本中的单个评委分
func (p *Panel) EditMark(judge int, value *float64) error {
	if judge < 1 || judge > 3 {
		return ErrInvalidJudge
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.editing == nil {
		return ErrNotEditing
	}
	p.editing.scratch[judge-1] = value
	return nil
}

// EditingRow 返回编辑中的参赛者 ID 与评分副本；无编辑时 ok 为 false
func (p *Panel) EditingRow() (rowID int, scratch [3]*float64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editing == nil {
		return 0, [3]*float64{}, false
	}
	return p.editing.rowID, p.editing.scratch, true
}

// CancelEdit 放弃编辑副本，原始评分不变，行回到锁定状态
func (p *Panel) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editing = nil
}

// UpdateEdit 提交编辑副本
// 成功后更新本地行、重新对账并退出编辑；失败时保持编辑模式，可重试或取消
func (p *Panel) UpdateEdit(ctx context.Context) error {
	p.mu.Lock()
	if p.selected == nil {
		p.mu.Unlock()
		return ErrNoProgramSelected
	}
	if p.editing == nil {
		p.mu.Unlock()
		return ErrNotEditing
	}
	rowID := p.editing.rowID
	if p.saving[rowID] {
		p.mu.Unlock()
		return ErrSaveInFlight
	}
	p.saving[rowID] = true

	programID := p.selected.ID
	j1 := positiveOrNil(p.editing.scratch[0])
	j2 := positiveOrNil(p.editing.scratch[1])
	j3 := positiveOrNil(p.editing.scratch[2])
	derived := marks.Derive(j1, j2, j3, p.maxMarks)
	teamID := p.teamIDLocked(rowID)
	p.mu.Unlock()

	payload := dto.MarkPayload{
		ID:            rowID,
		Judge1Marks:   j1,
		Judge2Marks:   j2,
		Judge3Marks:   j3,
		TotalMarks:    derived.Total,
		AverageMarks:  derived.Average,
		MarksOutOf100: derived.OutOf100,
		TeamID:        teamID,
	}

	_, err := p.gw.MarkEntry.BulkUpdate(ctx, p.eventID, programID, []dto.MarkPayload{payload})
	if err != nil {
		p.logger.Error("更新评分失败", zap.Int("row_id", rowID), zap.Error(err))
		p.mu.Lock()
		delete(p.saving, rowID)
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	if row := p.rowByID(rowID); row != nil {
		row.Judge1Marks, row.Judge2Marks, row.Judge3Marks = j1, j2, j3
		row.TotalMarks = derived.Total
		row.AverageMarks = derived.Average
		row.MarksOutOf100 = derived.OutOf100
	}
	p.savedInSession[rowID] = true
	p.editing = nil
	delete(p.saving, rowID)
	p.mu.Unlock()

	p.reconcile(ctx, programID)

	p.logger.Info("评分已更新", zap.Int("row_id", rowID), zap.Int("program_id", programID))
	p.bus.Publish(bus.PointsUpdated{EventID: p.eventID})
	return nil
}

// ────────────────────── 成绩 PDF ──────────────────────

// ResultsPDF 拉取当前项目的成绩 PDF，返回内容与建议文件名
func (p *Panel) ResultsPDF(ctx context.Context) ([]byte, string, error) {
	p.mu.Lock()
	if p.selected == nil {
		p.mu.Unlock()
		return nil, "", ErrNoProgramSelected
	}
	programID := p.selected.ID
	programName := p.selected.Name
	p.mu.Unlock()

	blob, err := p.gw.MarkEntry.ResultsPDF(ctx, p.eventID, programID)
	if err != nil {
		return nil, "", err
	}
	return blob, fmt.Sprintf("results_%s.pdf", programName), nil
}

// ────────────────────── 内部辅助 ──────────────────────

// reconcile 保存成功后重新拉取名单，以后端计算的排名/积分为准
// 对账失败只记日志，本地数据保持不变（下次保存或手动刷新时再同步）
func (p *Panel) reconcile(ctx context.Context, programID int) {
	rows, err := p.gw.MarkEntry.Participants(ctx, p.eventID, programID)
	if err != nil {
		p.logger.Warn("保存后对账失败", zap.Int("program_id", programID), zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// 对账期间操作员可能已切换项目，旧名单不再适用
	if p.selected == nil || p.selected.ID != programID {
		return
	}
	p.rows = rows
}

func (p *Panel) rowByID(rowID int) *model.MarkEntryRow {
	for i := range p.rows {
		if p.rows[i].ID == rowID {
			return &p.rows[i]
		}
	}
	return nil
}

func (p *Panel) stateOfLocked(row *model.MarkEntryRow) marks.EntryState {
	editing := p.editing != nil && p.editing.rowID == row.ID
	return marks.StateOf(row, p.savedInSession[row.ID], editing)
}

// applyDerived 重算单行派生值（每次按键调用，纯计算，重复调用安全）
func (p *Panel) applyDerived(row *model.MarkEntryRow) {
	derived := marks.Derive(row.Judge1Marks, row.Judge2Marks, row.Judge3Marks, p.maxMarks)
	row.TotalMarks = derived.Total
	row.AverageMarks = derived.Average
	row.MarksOutOf100 = derived.OutOf100
}

// payloadLocked 构造保存载荷：原始分（0 与空归一为 null）+ 客户端派生值
func (p *Panel) payloadLocked(row *model.MarkEntryRow) dto.MarkPayload {
	j1 := positiveOrNil(row.Judge1Marks)
	j2 := positiveOrNil(row.Judge2Marks)
	j3 := positiveOrNil(row.Judge3Marks)
	derived := marks.Derive(j1, j2, j3, p.maxMarks)

	payload := dto.MarkPayload{
		ID:            row.ID,
		Judge1Marks:   j1,
		Judge2Marks:   j2,
		Judge3Marks:   j3,
		TotalMarks:    derived.Total,
		AverageMarks:  derived.Average,
		MarksOutOf100: derived.OutOf100,
		Comments:      row.Comments,
	}
	if row.IsTeamBased && row.TeamID != nil {
		payload.TeamID = row.TeamID
	}
	return payload
}

func (p *Panel) teamIDLocked(rowID int) *int {
	row := p.rowByID(rowID)
	if row == nil || !row.IsTeamBased {
		return nil
	}
	return row.TeamID
}

func copyMark(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func positiveOrNil(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
