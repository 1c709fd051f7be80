package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/midlajmidu/eventloo-sub001/config"
	"github.com/midlajmidu/eventloo-sub001/internal/bus"
	"github.com/midlajmidu/eventloo-sub001/internal/gateway"
	"github.com/midlajmidu/eventloo-sub001/internal/markentry"
	"github.com/midlajmidu/eventloo-sub001/internal/marks"
	"github.com/midlajmidu/eventloo-sub001/internal/model"
	"github.com/midlajmidu/eventloo-sub001/internal/points"
	"github.com/midlajmidu/eventloo-sub001/pkg/apiclient"
	"github.com/midlajmidu/eventloo-sub001/pkg/download"
	applogger "github.com/midlajmidu/eventloo-sub001/pkg/logger"
	"github.com/midlajmidu/eventloo-sub001/pkg/token"
)

func init() {
	// .env 不存在时静默跳过，配置仍可来自 config.yaml 或环境变量
	_ = godotenv.Load()
}

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认搜索 ./config/config.yaml）")
	eventID := flag.Int("event", 0, "赛事 ID")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("评分录入控制台启动中...",
		zap.String("api", cfg.API.BaseURL),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Token 仓库与认证客户端
	// 认证接口走不带 BearerAuth 的裸客户端，避免刷新请求进入拦截器递归
	store := token.NewStore()
	bareClient, err := apiclient.New(&apiclient.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
	if err != nil {
		logger.Fatal("创建认证客户端失败", zap.Error(err))
	}
	authAPI := gateway.NewAuthAPI(bareClient)

	// 4. 业务客户端：追踪 ID → 请求日志 → 认证与自动刷新
	client, err := apiclient.New(&apiclient.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout},
		apiclient.RequestID(),
		apiclient.Logging(logger),
		apiclient.BearerAuth(store, authAPI.Refresh),
	)
	if err != nil {
		logger.Fatal("创建业务客户端失败", zap.Error(err))
	}

	// 5. 依赖注入: Gateway → 事件总线 → 面板/视图
	gw := gateway.New(client)
	eventBus := bus.New()

	scanner := bufio.NewScanner(os.Stdin)

	// 6. 登录
	username, password := cfg.Auth.Username, cfg.Auth.Password
	if username == "" {
		username = prompt(scanner, "用户名: ")
		password = prompt(scanner, "密码: ")
	}
	pair, err := gw.Auth.Login(context.Background(), username, password)
	if err != nil {
		logger.Fatal("登录失败", zap.Error(err))
	}
	store.SetPair(pair.Access, pair.Refresh)
	color.Green("登录成功")

	// 7. 选择赛事
	id := *eventID
	for id <= 0 {
		id, _ = strconv.Atoi(prompt(scanner, "赛事 ID: "))
	}

	panel := markentry.NewPanel(gw, eventBus, logger, id, cfg.Marks.DefaultMaxMarks)
	view := points.NewView(gw, eventBus, logger, id)
	defer view.Close()

	color.Cyan("正在加载项目列表...")
	if err := panel.LoadPrograms(context.Background()); err != nil {
		logger.Fatal("加载项目列表失败", zap.Error(err))
	}

	c := &console{
		cfg:     cfg,
		gw:      gw,
		panel:   panel,
		view:    view,
		scanner: scanner,
		eventID: id,
	}
	c.run()
}

// console 菜单循环的状态聚合
type console struct {
	cfg     *config.Config
	gw      *gateway.Gateway
	panel   *markentry.Panel
	view    *points.View
	scanner *bufio.Scanner
	eventID int
}

func (c *console) run() {
	for {
		c.displayMenu()
		switch prompt(c.scanner, "选择操作: ") {
		case "1":
			c.selectProgram()
		case "2":
			c.showRoster()
		case "3":
			c.enterMarks()
		case "4":
			c.editMarks()
		case "5":
			c.searchRoster()
		case "6":
			c.showPoints()
		case "7":
			c.downloadResultsPDF()
		case "8":
			c.downloadReport()
		case "9":
			c.setMaxMarks()
		case "0":
			color.Green("再见")
			return
		default:
			color.Red("无效选择，请重试")
		}
	}
}

func (c *console) displayMenu() {
	color.Cyan("\n=== Eventloo 评分录入控制台 ===")
	fmt.Println("1. 选择项目")
	fmt.Println("2. 查看名单")
	fmt.Println("3. 录入评分")
	fmt.Println("4. 修改已保存评分")
	fmt.Println("5. 搜索参赛者")
	fmt.Println("6. 队伍积分榜")
	fmt.Println("7. 下载成绩 PDF")
	fmt.Println("8. 下载赛事报表")
	fmt.Println("9. 调整单评委满分")
	fmt.Println("0. 退出")
}

// ────────────────────── 项目选择 ──────────────────────

func (c *console) selectProgram() {
	category := prompt(c.scanner, "类别 (hs/hss/general，留空不过滤): ")
	c.panel.SelectCategory(category)

	showCompleted := prompt(c.scanner, "查看已完成项目? (y/N): ") == "y"
	programs := c.panel.Programs(showCompleted)
	if len(programs) == 0 {
		color.Yellow("没有符合条件的项目")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "名称", "类别", "积分规则"})
	for _, program := range programs {
		table.Append([]string{
			strconv.Itoa(program.ID), program.Name, program.Category, program.PointsRule(),
		})
	}
	table.Render()

	completed, remaining := c.panel.ProgramProgress()
	fmt.Printf("已完成 %d 个项目，当前过滤下待录入 %d 个\n", completed, remaining)

	id, err := strconv.Atoi(prompt(c.scanner, "项目 ID: "))
	if err != nil {
		color.Red("无效的项目 ID")
		return
	}
	if err := c.panel.SelectProgram(context.Background(), id); err != nil {
		color.Red("选择项目失败: %v", err)
		return
	}
	color.Green("已选中项目 %d", id)
}

// ────────────────────── 名单展示 ──────────────────────

func (c *console) showRoster() {
	rows := c.panel.Rows()
	if len(rows) == 0 {
		color.Yellow("名单为空，请先选择项目")
		return
	}
	c.renderRoster(rows)

	withMarks, pending, percent := c.panel.RosterProgress()
	fmt.Printf("已有成绩 %d 人，待录入 %d 人，完成度 %d%%\n", withMarks, pending, percent)
}

func (c *console) renderRoster(rows []model.MarkEntryRow) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "参赛者", "评委1", "评委2", "评委3", "总分", "均分", "百分制", "排名", "状态"})
	for i := range rows {
		row := &rows[i]
		state, _ := c.panel.State(row.ID)
		table.Append([]string{
			strconv.Itoa(row.ID),
			row.DisplayName(),
			formatMark(row.Judge1Marks),
			formatMark(row.Judge2Marks),
			formatMark(row.Judge3Marks),
			formatMark(row.TotalMarks),
			formatMark(row.AverageMarks),
			formatMark(row.MarksOutOf100),
			formatPosition(row.Position),
			state.String(),
		})
	}
	table.Render()
}

func (c *console) searchRoster() {
	term := prompt(c.scanner, "搜索（姓名/学号/队名）: ")
	rows := c.panel.Search(term)
	if len(rows) == 0 {
		color.Yellow("没有匹配的参赛者")
		return
	}
	c.renderRoster(rows)
}

// ────────────────────── 评分录入 ──────────────────────

func (c *console) enterMarks() {
	rowID, err := strconv.Atoi(prompt(c.scanner, "参赛者 ID: "))
	if err != nil {
		color.Red("无效的参赛者 ID")
		return
	}

	for judge := 1; judge <= 3; judge++ {
		value, ok := promptMark(c.scanner, fmt.Sprintf("评委%d 分数（留空跳过）: ", judge))
		if !ok {
			continue
		}
		if err := c.panel.SetJudgeMark(rowID, judge, value); err != nil {
			color.Red("录入失败: %v", err)
			return
		}
	}

	state, err := c.panel.State(rowID)
	if err != nil {
		color.Red("%v", err)
		return
	}
	fmt.Printf("当前状态: %s\n", state)
	if state != marks.StateReadyToSave && state != marks.StatePartial {
		return
	}
	if prompt(c.scanner, "保存? (y/N): ") != "y" {
		return
	}

	if err := c.panel.Save(context.Background(), rowID); err != nil {
		color.Red("保存失败: %v", err)
		return
	}
	color.Green("评分已保存")
}

func (c *console) editMarks() {
	rowID, err := strconv.Atoi(prompt(c.scanner, "参赛者 ID: "))
	if err != nil {
		color.Red("无效的参赛者 ID")
		return
	}
	if err := c.panel.StartEdit(rowID); err != nil {
		color.Red("进入编辑失败: %v", err)
		return
	}

	for judge := 1; judge <= 3; judge++ {
		value, ok := promptMark(c.scanner, fmt.Sprintf("评委%d 分数（留空保留原值）: ", judge))
		if !ok {
			continue
		}
		if err := c.panel.EditMark(judge, value); err != nil {
			color.Red("修改失败: %v", err)
			c.panel.CancelEdit()
			return
		}
	}

	if prompt(c.scanner, "提交修改? (y/N): ") != "y" {
		c.panel.CancelEdit()
		color.Yellow("已放弃修改，评分保持不变")
		return
	}
	if err := c.panel.UpdateEdit(context.Background()); err != nil {
		color.Red("更新失败: %v", err)
		return
	}
	color.Green("评分已更新")
}

func (c *console) setMaxMarks() {
	fmt.Printf("当前单评委满分: %s\n", strconv.FormatFloat(c.panel.MaxMarks(), 'f', -1, 64))
	value, ok := promptMark(c.scanner, "新满分: ")
	if !ok || value == nil {
		return
	}
	if err := c.panel.SetMaxMarks(*value); err != nil {
		color.Red("%v", err)
		return
	}
	color.Green("已调整满分，未锁定行的派生值已重算")
}

// ────────────────────── 积分榜 ──────────────────────

func (c *console) showPoints() {
	if err := c.view.Load(context.Background()); err != nil {
		color.Red("加载积分榜失败: %v", err)
		return
	}

	color.Cyan("队伍积分榜")
	teams := c.view.TeamPoints()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"队伍", "总积分", "参与项目", "夺冠项目"})
	for _, team := range teams {
		table.Append([]string{
			team.TeamName,
			strconv.FormatFloat(team.TotalPoints, 'f', -1, 64),
			strconv.Itoa(team.ProgramsParticipated),
			strconv.Itoa(team.ProgramsWon),
		})
	}
	table.Render()

	students := c.view.StudentPoints()
	if len(students) > 0 {
		color.Cyan("学生个人积分榜")
		studentTable := tablewriter.NewWriter(os.Stdout)
		studentTable.SetHeader([]string{"学生", "学号", "队伍", "总积分"})
		for _, student := range students {
			studentTable.Append([]string{
				student.StudentName,
				student.StudentCode,
				student.TeamName,
				strconv.FormatFloat(student.TotalPoints, 'f', -1, 64),
			})
		}
		studentTable.Render()
	}

	idStr := prompt(c.scanner, "查看队伍明细（队伍 ID，留空返回）: ")
	if idStr == "" {
		return
	}
	teamID, err := strconv.Atoi(idStr)
	if err != nil {
		color.Red("无效的队伍 ID")
		return
	}
	details, err := c.view.TeamDetails(context.Background(), teamID)
	if err != nil {
		color.Red("加载队伍明细失败: %v", err)
		return
	}

	color.Cyan("%s 总积分 %s", details.TeamName, strconv.FormatFloat(details.TotalPoints, 'f', -1, 64))
	detailTable := tablewriter.NewWriter(os.Stdout)
	detailTable.SetHeader([]string{"项目", "名次", "积分"})
	for _, result := range details.Results {
		detailTable.Append([]string{
			result.ProgramName,
			formatPosition(result.Position),
			strconv.FormatFloat(result.PointsEarned, 'f', -1, 64),
		})
	}
	detailTable.Render()
}

// ────────────────────── 报表下载 ──────────────────────

func (c *console) downloadResultsPDF() {
	blob, filename, err := c.panel.ResultsPDF(context.Background())
	if err != nil {
		color.Red("生成成绩 PDF 失败: %v", err)
		return
	}
	path, err := download.Save(c.cfg.Download.Dir, filename, blob)
	if err != nil {
		color.Red("保存文件失败: %v", err)
		return
	}
	color.Green("已保存: %s", path)
}

func (c *console) downloadReport() {
	fmt.Println("可用报表:")
	for i, reportType := range gateway.ReportTypes {
		fmt.Printf("%d. %s\n", i+1, reportType)
	}
	fmt.Printf("%d. 点名表（全部项目）\n", len(gateway.ReportTypes)+1)
	fmt.Printf("%d. 评分表（全部项目）\n", len(gateway.ReportTypes)+2)

	choice, err := strconv.Atoi(prompt(c.scanner, "报表编号: "))
	if err != nil || choice < 1 || choice > len(gateway.ReportTypes)+2 {
		color.Red("无效的报表编号")
		return
	}

	var blob []byte
	var filename string
	ctx := context.Background()
	switch {
	case choice <= len(gateway.ReportTypes):
		reportType := gateway.ReportTypes[choice-1]
		blob, err = c.gw.Reports.Report(ctx, c.eventID, reportType)
		filename = fmt.Sprintf("%s_event_%d.pdf", reportType, c.eventID)
	case choice == len(gateway.ReportTypes)+1:
		blob, err = c.gw.Reports.BulkCallingSheets(ctx, c.eventID)
		filename = fmt.Sprintf("calling_sheets_event_%d.pdf", c.eventID)
	default:
		blob, err = c.gw.Reports.BulkValuationSheets(ctx, c.eventID)
		filename = fmt.Sprintf("valuation_sheets_event_%d.pdf", c.eventID)
	}
	if err != nil {
		color.Red("生成报表失败: %v", err)
		return
	}

	path, err := download.Save(c.cfg.Download.Dir, filename, blob)
	if err != nil {
		color.Red("保存文件失败: %v", err)
		return
	}
	color.Green("已保存: %s", path)
}

// ────────────────────── 输入辅助 ──────────────────────

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// promptMark 读取一个评分输入；空串表示跳过（ok=false），"-" 表示清空该评委分
func promptMark(scanner *bufio.Scanner, label string) (*float64, bool) {
	raw := prompt(scanner, label)
	if raw == "" {
		return nil, false
	}
	if raw == "-" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		color.Red("无效的分数: %s", raw)
		return nil, false
	}
	return &value, true
}

func formatMark(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatPosition(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
