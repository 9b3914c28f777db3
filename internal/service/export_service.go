package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"herois-da-vida/backend/internal/model"
	"herois-da-vida/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口（仅管理员）
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 用户导出不包含密码摘要
//   - 活动导出中创建者已删除时显示 "-"
type ExportService interface {
	ExportUsers(ctx context.Context) (*bytes.Buffer, string, error)
	ExportCampaigns(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

const exportTimeLayout = "2006-01-02 15:04:05"

// ═══════════════════════════════════════════════════════════
// ExportUsers：导出用户列表
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportUsers(ctx context.Context) (*bytes.Buffer, string, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, "", err
	}

	headers := []string{"ID", "姓名", "邮箱", "角色", "捐献者", "捐献器官", "注册时间", "最近登录"}
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format(exportTimeLayout)
		}
		rows = append(rows, []interface{}{
			u.ID,
			u.Name,
			u.Email,
			u.Role,
			yesNo(u.IsDonor),
			strings.Join(u.DonatedOrgans, ", "),
			u.CreatedAt.Format(exportTimeLayout),
			lastLogin,
		})
	}

	return s.writeSheet("用户", headers, rows, "users")
}

// ═══════════════════════════════════════════════════════════
// ExportCampaigns：导出捐献活动列表
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCampaigns(ctx context.Context) (*bytes.Buffer, string, error) {
	campaigns, err := s.repo.Campaign.List(ctx)
	if err != nil {
		s.logger.Error("查询活动列表失败", zap.Error(err))
		return nil, "", err
	}
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, "", err
	}
	index := make(map[int64]*model.User, len(users))
	for i := range users {
		index[users[i].ID] = &users[i]
	}

	headers := []string{"ID", "标题", "目标器官", "目标", "当前", "进度", "状态", "创建者", "参与人数", "创建时间"}
	rows := make([][]interface{}, 0, len(campaigns))
	for i := range campaigns {
		p := ProjectCampaign(&campaigns[i], index)
		creator := "-"
		if p.Creator != nil {
			creator = p.Creator.Name
		}
		progress := 0.0
		if p.Goal > 0 {
			progress = float64(p.Current) / float64(p.Goal)
		}
		rows = append(rows, []interface{}{
			p.ID,
			p.Title,
			p.TargetOrgan,
			p.Goal,
			p.Current,
			progress,
			p.Status,
			creator,
			p.ParticipantCount,
			p.CreatedAt.Format(exportTimeLayout),
		})
	}

	return s.writeSheet("活动", headers, rows, "campaigns")
}

// ── 内部方法 ──

// writeSheet 生成单 Sheet 工作簿：第 1 行表头，其后为数据行
func (s *exportService) writeSheet(sheetName string, headers []string, rows [][]interface{}, filePrefix string) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C0392B"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, 18)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", last, headerStyle)

	for r, row := range rows {
		start, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, start, &row); err != nil {
			s.logger.Error("写入数据行失败", zap.Int("row", r+2), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_%s.xlsx", filePrefix, s.now().Format("20060102"))
	return buf, filename, nil
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
