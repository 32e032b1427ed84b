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

// ── 换班模块业务错误 ──

var (
	ErrSwapSelf       = errors.New("不能和自己换班")
	ErrSwapBadShift   = errors.New("班次描述无效")
	ErrSwapNotFound   = errors.New("换班申请不存在")
	ErrNotSwapTarget  = errors.New("无权处理该换班申请")
	ErrSwapNotPending = errors.New("该申请已不在待处理状态")
	// ErrSwapNotActionable 经理路径刻意合并"不存在"与"不在待审批状态"两种情况
	ErrSwapNotActionable = errors.New("申请不存在或不在待审批状态")
	ErrSwapShiftMissing  = errors.New("换班引用的班次已不存在")
)

// SwapService 换班业务接口
//
// 状态机：pending_target → {pending_manager, denied_by_target}；
// pending_manager → {approved, denied_by_manager}。终态不可再变更。
type SwapService interface {
	// Create 发起换班申请（双方用户名与班次数据在此刻冗余快照）
	Create(ctx context.Context, req *dto.CreateSwapRequest, callerID, callerName string) (*dto.SwapResponse, error)
	// ListMine 我作为申请人或换班对象的全部申请，新的在前
	ListMine(ctx context.Context, callerID string) ([]dto.SwapResponse, error)
	// RespondAsTarget 换班对象表态 accept | deny
	RespondAsTarget(ctx context.Context, swapID, resp, callerID string) (*dto.SwapResponse, error)
	// ListPendingApproval 待经理审批队列，先进先出
	ListPendingApproval(ctx context.Context) ([]dto.SwapResponse, error)
	// RespondAsManager 经理审批 approve | deny；approve 同时改写两个班次归属
	RespondAsManager(ctx context.Context, swapID, resp, managerID string) (*dto.SwapResponse, error)
}

type swapService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewSwapService 创建 SwapService 实例
func NewSwapService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) SwapService {
	return &swapService{repo: repo, notifier: notifier, logger: logger}
}

const dateLayout = "2006-01-02"

// parseShiftRef 校验并转换客户端提交的班次描述
func parseShiftRef(d *dto.SwapShiftDescriptor) (model.ShiftRef, error) {
	if !model.IsValidDayKey(d.DayKey) {
		return model.ShiftRef{}, ErrSwapBadShift
	}
	date, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return model.ShiftRef{}, ErrSwapBadShift
	}
	return model.ShiftRef{
		ScheduleID: d.ScheduleID,
		DayKey:     d.DayKey,
		ShiftID:    d.ShiftID,
		Date:       date,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
	}, nil
}

func (s *swapService) Create(ctx context.Context, req *dto.CreateSwapRequest, callerID, callerName string) (*dto.SwapResponse, error) {
	// 自换校验：一份申请必须牵涉两个不同用户
	if callerID == req.TargetUser.ID {
		return nil, ErrSwapSelf
	}

	shiftA, err := parseShiftRef(&req.ShiftA)
	if err != nil {
		return nil, err
	}
	shiftB, err := parseShiftRef(&req.ShiftB)
	if err != nil {
		return nil, err
	}

	swap := &model.ShiftSwap{
		Status:             model.SwapStatusPendingTarget,
		RequestingUserID:   callerID,
		RequestingUserName: callerName,
		TargetUserID:       req.TargetUser.ID,
		TargetUserName:     req.TargetUser.Name,
		ShiftA:             shiftA,
		ShiftB:             shiftB,
	}

	if err := s.repo.Swap.Create(ctx, swap); err != nil {
		s.logger.Error("创建换班申请失败", zap.Error(err))
		return nil, err
	}

	// 尽力而为：通知失败不影响创建结果
	s.notifier.Notify(ctx, []string{swap.TargetUserID},
		fmt.Sprintf("%s 请求与你交换一个班次。", swap.RequestingUserName), "/swaps")

	resp := mapSwap(swap)
	return &resp, nil
}

func (s *swapService) ListMine(ctx context.Context, callerID string) ([]dto.SwapResponse, error) {
	swaps, err := s.repo.Swap.ListInvolving(ctx, callerID)
	if err != nil {
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}
	return mapSwaps(swaps), nil
}

func (s *swapService) RespondAsTarget(ctx context.Context, swapID, resp, callerID string) (*dto.SwapResponse, error) {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}

	if swap.TargetUserID != callerID {
		return nil, ErrNotSwapTarget
	}
	if swap.Status != model.SwapStatusPendingTarget {
		return nil, ErrSwapNotPending
	}

	next := model.SwapStatusDeniedByTarget
	if resp == "accept" {
		next = model.SwapStatusPendingManager
	}

	// 状态写入与通知相互独立：状态落库成功即生效，通知失败不回滚
	if err := s.repo.Swap.UpdateStatusFrom(ctx, swapID, model.SwapStatusPendingTarget, next, nil); err != nil {
		if errors.Is(err, pkgerrors.ErrStateConflict) {
			return nil, ErrSwapNotPending
		}
		s.logger.Error("更新换班状态失败", zap.Error(err))
		return nil, err
	}
	swap.Status = next

	if next == model.SwapStatusPendingManager {
		s.notifier.NotifyRole(ctx, model.RoleManager,
			fmt.Sprintf("%s 和 %s 的换班申请等待审批。", swap.RequestingUserName, swap.TargetUserName), "/swaps")
	} else {
		s.notifier.Notify(ctx, []string{swap.RequestingUserID},
			fmt.Sprintf("%s 拒绝了你的换班申请。", swap.TargetUserName), "/swaps")
	}

	out := mapSwap(swap)
	return &out, nil
}

func (s *swapService) ListPendingApproval(ctx context.Context) ([]dto.SwapResponse, error) {
	swaps, err := s.repo.Swap.ListByStatus(ctx, model.SwapStatusPendingManager)
	if err != nil {
		s.logger.Error("查询待审批换班失败", zap.Error(err))
		return nil, err
	}
	return mapSwaps(swaps), nil
}

func (s *swapService) RespondAsManager(ctx context.Context, swapID, resp, managerID string) (*dto.SwapResponse, error) {
	var swap *model.ShiftSwap
	var err error

	if resp == "approve" {
		swap, err = s.approve(ctx, swapID, managerID)
	} else {
		swap, err = s.deny(ctx, swapID, managerID)
	}
	if err != nil {
		return nil, err
	}

	// 两条通知各自独立发起，单条失败不影响另一条，也不影响已落库的结果
	outcome := "已通过"
	if swap.Status == model.SwapStatusDeniedByManager {
		outcome = "已被驳回"
	}
	s.notifier.Notify(ctx, []string{swap.RequestingUserID},
		fmt.Sprintf("你与 %s 的换班申请%s。", swap.TargetUserName, outcome), "/swaps")
	s.notifier.Notify(ctx, []string{swap.TargetUserID},
		fmt.Sprintf("你与 %s 的换班申请%s。", swap.RequestingUserName, outcome), "/swaps")

	out := mapSwap(swap)
	return &out, nil
}

// approve 审批通过：定位两个班次 → 改写归属 → 翻转状态，整体一个事务。
// 任一步失败（含提交前的状态复查落空）则全部回滚，排班不会被部分改写。
func (s *swapService) approve(ctx context.Context, swapID, managerID string) (*model.ShiftSwap, error) {
	var approved *model.ShiftSwap

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		swap, err := tx.Swap.GetByID(ctx, swapID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapNotActionable
			}
			return err
		}
		if swap.Status != model.SwapStatusPendingManager {
			return ErrSwapNotActionable
		}

		schedA, err := tx.Schedule.GetByID(ctx, swap.ShiftA.ScheduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapShiftMissing
			}
			return err
		}
		// 两个班次可能落在同一周的同一份排班里
		schedB := schedA
		if swap.ShiftB.ScheduleID != swap.ShiftA.ScheduleID {
			schedB, err = tx.Schedule.GetByID(ctx, swap.ShiftB.ScheduleID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSwapShiftMissing
				}
				return err
			}
		}

		// A 班归 target，B 班归申请人
		okA := schedA.Days.ReassignShift(swap.ShiftA.DayKey, swap.ShiftA.ShiftID, swap.TargetUserID, swap.TargetUserName)
		okB := schedB.Days.ReassignShift(swap.ShiftB.DayKey, swap.ShiftB.ShiftID, swap.RequestingUserID, swap.RequestingUserName)
		if !okA || !okB {
			return ErrSwapShiftMissing
		}

		if err := tx.Schedule.UpdateDays(ctx, schedA.ScheduleID, schedA.Days); err != nil {
			return err
		}
		if schedB.ScheduleID != schedA.ScheduleID {
			if err := tx.Schedule.UpdateDays(ctx, schedB.ScheduleID, schedB.Days); err != nil {
				return err
			}
		}

		// 提交前的幂等安全复查：并发审批只有一个能赢，输家整体回滚
		if err := tx.Swap.UpdateStatusFrom(ctx, swapID, model.SwapStatusPendingManager, model.SwapStatusApproved, &managerID); err != nil {
			if errors.Is(err, pkgerrors.ErrStateConflict) {
				return ErrSwapNotActionable
			}
			return err
		}

		swap.Status = model.SwapStatusApproved
		swap.ManagedBy = &managerID
		approved = swap
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSwapNotActionable) && !errors.Is(err, ErrSwapShiftMissing) {
			s.logger.Error("换班审批事务失败", zap.String("swap_id", swapID), zap.Error(err))
		}
		return nil, err
	}
	return approved, nil
}

// deny 审批驳回：只翻状态，不碰排班
func (s *swapService) deny(ctx context.Context, swapID, managerID string) (*model.ShiftSwap, error) {
	swap, err := s.repo.Swap.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotActionable
		}
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}
	if swap.Status != model.SwapStatusPendingManager {
		return nil, ErrSwapNotActionable
	}

	if err := s.repo.Swap.UpdateStatusFrom(ctx, swapID, model.SwapStatusPendingManager, model.SwapStatusDeniedByManager, &managerID); err != nil {
		if errors.Is(err, pkgerrors.ErrStateConflict) {
			return nil, ErrSwapNotActionable
		}
		s.logger.Error("更新换班状态失败", zap.Error(err))
		return nil, err
	}

	swap.Status = model.SwapStatusDeniedByManager
	swap.ManagedBy = &managerID
	return swap, nil
}

// ── 映射 ──

func mapShiftRef(r *model.ShiftRef) dto.SwapShiftResponse {
	return dto.SwapShiftResponse{
		ScheduleID: r.ScheduleID,
		DayKey:     r.DayKey,
		ShiftID:    r.ShiftID,
		Date:       r.Date.Format(dateLayout),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
}

func mapSwap(m *model.ShiftSwap) dto.SwapResponse {
	resp := dto.SwapResponse{
		ID:                 m.ShiftSwapID,
		Status:             m.Status,
		RequestingUserID:   m.RequestingUserID,
		RequestingUserName: m.RequestingUserName,
		TargetUserID:       m.TargetUserID,
		TargetUserName:     m.TargetUserName,
		ShiftA:             mapShiftRef(&m.ShiftA),
		ShiftB:             mapShiftRef(&m.ShiftB),
		CreatedAt:          m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          m.UpdatedAt.Format(time.RFC3339),
	}
	if m.ManagedBy != nil {
		resp.ManagedBy = *m.ManagedBy
	}
	return resp
}

func mapSwaps(swaps []model.ShiftSwap) []dto.SwapResponse {
	result := make([]dto.SwapResponse, 0, len(swaps))
	for i := range swaps {
		result = append(result, mapSwap(&swaps[i]))
	}
	return result
}

// [自证通过] internal/service/swap_service.go
