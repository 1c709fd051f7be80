// Package points 实现队伍积分榜视图。
//
// 与评分录入面板互为独立视图：不共享名单数据，
// 仅通过事件总线得知积分可能变化，然后自行重新拉取
package points

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/midlajmidu/eventloo-sub001/internal/bus"
	"github.com/midlajmidu/eventloo-sub001/internal/gateway"
	"github.com/midlajmidu/eventloo-sub001/internal/model"
)

// View 积分榜视图（只读，数据全部来自后端）
type View struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	eventID int
	cancel  func()

	mu            sync.Mutex
	teamPoints    []model.TeamPoints
	studentPoints []model.StudentPoints
	programs      []model.Program
	refreshing    bool
}

// NewView 创建积分榜视图并订阅 PointsUpdated
// 视图只响应自己赛事的事件，其他赛事的保存不触发刷新
func NewView(gw *gateway.Gateway, b *bus.Bus, logger *zap.Logger, eventID int) *View {
	v := &View{gw: gw, logger: logger, eventID: eventID}
	v.cancel = b.Subscribe(v.onPointsUpdated)
	return v
}

// Close 注销事件订阅（视图卸载时调用，防止监听泄漏）
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
	}
}

// Load 拉取队伍积分、学生积分与项目列表
func (v *View) Load(ctx context.Context) error {
	teamPoints, err := v.gw.Points.TeamPoints(ctx, v.eventID)
	if err != nil {
		v.logger.Error("拉取队伍积分失败", zap.Int("event_id", v.eventID), zap.Error(err))
		return err
	}
	studentPoints, err := v.gw.Points.StudentPoints(ctx, v.eventID)
	if err != nil {
		v.logger.Error("拉取学生积分失败", zap.Int("event_id", v.eventID), zap.Error(err))
		return err
	}
	programs, err := v.gw.Programs.List(ctx, v.eventID)
	if err != nil {
		v.logger.Error("拉取项目列表失败", zap.Int("event_id", v.eventID), zap.Error(err))
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.teamPoints = teamPoints
	v.studentPoints = studentPoints
	v.programs = programs
	return nil
}

// TeamPoints 返回积分榜的副本
func (v *View) TeamPoints() []model.TeamPoints {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.TeamPoints, len(v.teamPoints))
	copy(out, v.teamPoints)
	return out
}

// StudentPoints 返回学生积分榜的副本
func (v *View) StudentPoints() []model.StudentPoints {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.StudentPoints, len(v.studentPoints))
	copy(out, v.studentPoints)
	return out
}

// Programs 返回项目列表的副本
func (v *View) Programs() []model.Program {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.Program, len(v.programs))
	copy(out, v.programs)
	return out
}

// Refreshing 是否有事件触发的刷新在途
func (v *View) Refreshing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.refreshing
}

// TeamDetails 拉取单支队伍的明细（侧栏钻取）
func (v *View) TeamDetails(ctx context.Context, teamID int) (*model.TeamEventDetails, error) {
	details, err := v.gw.Points.TeamEventDetails(ctx, teamID, v.eventID)
	if err != nil {
		v.logger.Error("拉取队伍明细失败", zap.Int("team_id", teamID), zap.Error(err))
		return nil, err
	}
	return details, nil
}

// onPointsUpdated 评分保存后的刷新回调
// 刷新失败只记日志：榜单保留旧数据，下一次事件或手动加载时再同步
func (v *View) onPointsUpdated(ev bus.PointsUpdated) {
	if ev.EventID != v.eventID {
		return
	}

	v.mu.Lock()
	if v.refreshing {
		v.mu.Unlock()
		return // 已有刷新在途，事件不携带数据，丢弃是安全的
	}
	v.refreshing = true
	v.mu.Unlock()

	if err := v.Load(context.Background()); err != nil {
		v.logger.Warn("积分榜刷新失败", zap.Int("event_id", v.eventID), zap.Error(err))
	}

	v.mu.Lock()
	v.refreshing = false
	v.mu.Unlock()
}
