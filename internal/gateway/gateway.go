// Package gateway 封装 Eventloo 后端 REST API 的类型化访问面。
//
// 所有业务数据（项目/名单/成绩/排名/积分）均以后端为权威，
// 本包只负责请求编排与响应解码，不做任何业务计算
package gateway

import (
	"github.com/midlajmidu/eventloo-sub001/pkg/apiclient"
)

// Gateway 所有 API 区块的聚合入口
type Gateway struct {
	Auth      AuthAPI
	Programs  ProgramsAPI
	MarkEntry MarkEntryAPI
	Points    PointsAPI
	Reports   ReportsAPI
}

// New 创建 Gateway 聚合
func New(client *apiclient.Client) *Gateway {
	return &Gateway{
		Auth:      NewAuthAPI(client),
		Programs:  NewProgramsAPI(client),
		MarkEntry: NewMarkEntryAPI(client),
		Points:    NewPointsAPI(client),
		Reports:   NewReportsAPI(client),
	}
}
