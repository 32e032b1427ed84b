package errors

import "errors"

// ErrStateConflict 状态条件更新落空：记录已被其他操作变更
// 用于 WHERE status = ? 受保护更新 RowsAffected == 0 的场景
var ErrStateConflict = errors.New("数据状态已变更，请刷新后重试")
