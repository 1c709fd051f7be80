package markentry

import (
	"context"
	"errors"
	"sync"

	"github.com/midlajmidu/eventloo-sub001/internal/dto"
	"github.com/midlajmidu/eventloo-sub001/internal/gateway"
	"github.com/midlajmidu/eventloo-sub001/internal/model"
)

// ── Mock ProgramsAPI ──

type mockProgramsAPI struct {
	programs []model.Program
	err      error
}

func (m *mockProgramsAPI) List(_ context.Context, _ int) ([]model.Program, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Program, len(m.programs))
	copy(out, m.programs)
	return out, nil
}

// ── Mock MarkEntryAPI ──

// mockMarkEntryAPI 模拟后端：保存时把评分写回名单并补上排名/积分
type mockMarkEntryAPI struct {
	mu      sync.Mutex
	rosters map[int][]model.MarkEntryRow // programID → 名单

	participantsErr error
	bulkErr         error
	bulkBlock       chan struct{} // 非 nil 时 BulkUpdate 阻塞至关闭，用于单飞测试
	bulkStarted     chan struct{} // 首个 BulkUpdate 进入阻塞时关闭
	startOnce       sync.Once

	lastPayload []dto.MarkPayload
	bulkCalls   int
}

func newMockMarkEntryAPI() *mockMarkEntryAPI {
	return &mockMarkEntryAPI{rosters: make(map[int][]model.MarkEntryRow)}
}

func (m *mockMarkEntryAPI) Participants(_ context.Context, _ int, programID int) ([]model.MarkEntryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.participantsErr != nil {
		return nil, m.participantsErr
	}
	roster, ok := m.rosters[programID]
	if !ok {
		return nil, errors.New("项目不存在")
	}
	out := make([]model.MarkEntryRow, len(roster))
	copy(out, roster)
	return out, nil
}

func (m *mockMarkEntryAPI) BulkUpdate(_ context.Context, _ int, programID int, payload []dto.MarkPayload) (*dto.BulkMarkEntryResponse, error) {
	if m.bulkBlock != nil {
		if m.bulkStarted != nil {
			m.startOnce.Do(func() { close(m.bulkStarted) })
		}
		<-m.bulkBlock
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bulkCalls++
	m.lastPayload = payload
	if m.bulkErr != nil {
		return nil, m.bulkErr
	}

	roster := m.rosters[programID]
	for _, mark := range payload {
		for i := range roster {
			if roster[i].ID != mark.ID {
				continue
			}
			roster[i].Judge1Marks = mark.Judge1Marks
			roster[i].Judge2Marks = mark.Judge2Marks
			roster[i].Judge3Marks = mark.Judge3Marks
			roster[i].TotalMarks = mark.TotalMarks
			roster[i].AverageMarks = mark.AverageMarks
			roster[i].MarksOutOf100 = mark.MarksOutOf100
			// 模拟后端排名计算
			pos := 1
			roster[i].Position = &pos
			roster[i].PointsEarned = 5
		}
	}
	m.rosters[programID] = roster

	return &dto.BulkMarkEntryResponse{Message: "saved"}, nil
}

func (m *mockMarkEntryAPI) ResultsPDF(_ context.Context, _ int, _ int) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

// newTestGateway 组装只含评分录入所需区块的 Gateway
func newTestGateway(programs *mockProgramsAPI, markEntry *mockMarkEntryAPI) *gateway.Gateway {
	return &gateway.Gateway{
		Programs:  programs,
		MarkEntry: markEntry,
	}
}
