package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"shiftflow/backend/internal/dto"
	"shiftflow/backend/internal/model"
	"shiftflow/backend/internal/repository"
	pkgerrors "shiftflow/backend/pkg/errors"
)

// ── 测试脚手架 ──

type swapTestEnv struct {
	svc          SwapService
	swapRepo     *mockSwapRepo
	scheduleRepo *mockScheduleRepo
	userRepo     *mockUserRepo
	notifier     *recordingNotifier
}

func setupSwapTest() *swapTestEnv {
	swapRepo := newMockSwapRepo()
	scheduleRepo := newMockScheduleRepo()
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		User:          userRepo,
		Schedule:      scheduleRepo,
		CalendarEvent: newMockCalendarEventRepo(),
		Pto:           newMockPtoRepo(),
		Swap:          swapRepo,
		Notification:  newMockNotificationRepo(),
	}
	notifier := &recordingNotifier{}
	return &swapTestEnv{
		svc:          NewSwapService(repo, notifier, zap.NewNop()),
		swapRepo:     swapRepo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// seedSchedule 写入一份周排班：alice 在周五有班 shift-a，bob 在周六有班 shift-b
func (env *swapTestEnv) seedSchedule(scheduleID string) *model.Schedule {
	schedule := &model.Schedule{
		ScheduleID:   scheduleID,
		WeekStarting: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
		Days: model.ShiftDays{
			"friday": {
				{ShiftID: "shift-a", UserID: "alice", UserName: "Alice", StartTime: "09:00", EndTime: "17:00"},
			},
			"saturday": {
				{ShiftID: "shift-b", UserID: "bob", UserName: "Bob", StartTime: "10:00", EndTime: "18:00"},
			},
		},
	}
	env.scheduleRepo.schedules[scheduleID] = schedule
	return schedule
}

func validCreateReq(scheduleID string) *dto.CreateSwapRequest {
	return &dto.CreateSwapRequest{
		ShiftA: dto.SwapShiftDescriptor{
			ScheduleID: scheduleID, DayKey: "friday", ShiftID: "shift-a",
			Date: "2026-09-04", StartTime: "09:00", EndTime: "17:00",
		},
		ShiftB: dto.SwapShiftDescriptor{
			ScheduleID: scheduleID, DayKey: "saturday", ShiftID: "shift-b",
			Date: "2026-09-05", StartTime: "10:00", EndTime: "18:00",
		},
		TargetUser: dto.SwapTargetUser{ID: "bob", Name: "Bob"},
	}
}

// seedSwap 直接写入一条指定状态的换班申请
func (env *swapTestEnv) seedSwap(id, status, scheduleID string) *model.ShiftSwap {
	swap := &model.ShiftSwap{
		ShiftSwapID:        id,
		Status:             status,
		RequestingUserID:   "alice",
		RequestingUserName: "Alice",
		TargetUserID:       "bob",
		TargetUserName:     "Bob",
		ShiftA: model.ShiftRef{
			ScheduleID: scheduleID, DayKey: "friday", ShiftID: "shift-a",
			Date: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "17:00",
		},
		ShiftB: model.ShiftRef{
			ScheduleID: scheduleID, DayKey: "saturday", ShiftID: "shift-b",
			Date: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), StartTime: "10:00", EndTime: "18:00",
		},
	}
	env.swapRepo.swaps[id] = swap
	return swap
}

// ── Create ──

func TestCreateSwap_Success(t *testing.T) {
	env := setupSwapTest()

	result, err := env.svc.Create(context.Background(), validCreateReq("sched-1"), "alice", "Alice")
	if err != nil {
		t.Fatalf("Create 应成功，但返回错误: %v", err)
	}

	if result.Status != model.SwapStatusPendingTarget {
		t.Errorf("期望初始状态 pending_target，实际=%s", result.Status)
	}
	if result.RequestingUserName != "Alice" || result.TargetUserName != "Bob" {
		t.Errorf("用户名快照不正确: %s / %s", result.RequestingUserName, result.TargetUserName)
	}
	if result.ShiftA.ShiftID != "shift-a" || result.ShiftA.Date != "2026-09-04" {
		t.Errorf("班次 A 快照不正确: %+v", result.ShiftA)
	}

	// 换班对象应收到一条通知
	if len(env.notifier.calls) != 1 {
		t.Fatalf("期望 1 次通知，实际=%d", len(env.notifier.calls))
	}
	call := env.notifier.calls[0]
	if len(call.UserIDs) != 1 || call.UserIDs[0] != "bob" {
		t.Errorf("通知接收者应为 bob，实际=%v", call.UserIDs)
	}
	if call.Link != "/swaps" {
		t.Errorf("通知链接应为 /swaps，实际=%s", call.Link)
	}
}

func TestCreateSwap_SelfSwap(t *testing.T) {
	env := setupSwapTest()

	req := validCreateReq("sched-1")
	req.TargetUser.ID = "alice"

	if _, err := env.svc.Create(context.Background(), req, "alice", "Alice"); !errors.Is(err, ErrSwapSelf) {
		t.Errorf("与自己换班应返回 ErrSwapSelf，实际=%v", err)
	}
	if len(env.notifier.calls) != 0 {
		t.Error("失败的创建不应触发通知")
	}
}

func TestCreateSwap_BadDayKey(t *testing.T) {
	env := setupSwapTest()

	req := validCreateReq("sched-1")
	req.ShiftA.DayKey = "someday"

	if _, err := env.svc.Create(context.Background(), req, "alice", "Alice"); !errors.Is(err, ErrSwapBadShift) {
		t.Errorf("非法日槽应返回 ErrSwapBadShift，实际=%v", err)
	}
}

func TestCreateSwap_BadDate(t *testing.T) {
	env := setupSwapTest()

	req := validCreateReq("sched-1")
	req.ShiftB.Date = "04/09/2026"

	if _, err := env.svc.Create(context.Background(), req, "alice", "Alice"); !errors.Is(err, ErrSwapBadShift) {
		t.Errorf("非法日期应返回 ErrSwapBadShift，实际=%v", err)
	}
}

// ── RespondAsTarget ──

func TestRespondAsTarget_Accept(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusPendingTarget, "sched-1")

	result, err := env.svc.RespondAsTarget(context.Background(), "swap-1", "accept", "bob")
	if err != nil {
		t.Fatalf("接受换班应成功，但返回错误: %v", err)
	}
	if result.Status != model.SwapStatusPendingManager {
		t.Errorf("接受后状态应为 pending_manager，实际=%s", result.Status)
	}

	// 所有经理应收到待审批通知
	if len(env.notifier.calls) != 1 || env.notifier.calls[0].Role != model.RoleManager {
		t.Errorf("接受后应按 manager 角色扇出，实际=%+v", env.notifier.calls)
	}
}

func TestRespondAsTarget_Deny(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusPendingTarget, "sched-1")

	result, err := env.svc.RespondAsTarget(context.Background(), "swap-1", "deny", "bob")
	if err != nil {
		t.Fatalf("拒绝换班应成功，但返回错误: %v", err)
	}
	if result.Status != model.SwapStatusDeniedByTarget {
		t.Errorf("拒绝后状态应为 denied_by_target，实际=%s", result.Status)
	}

	// 申请人应收到被拒通知
	if len(env.notifier.calls) != 1 {
		t.Fatalf("期望 1 次通知，实际=%d", len(env.notifier.calls))
	}
	if ids := env.notifier.calls[0].UserIDs; len(ids) != 1 || ids[0] != "alice" {
		t.Errorf("拒绝通知应发给 alice，实际=%v", ids)
	}
}

func TestRespondAsTarget_NotFound(t *testing.T) {
	env := setupSwapTest()

	if _, err := env.svc.RespondAsTarget(context.Background(), "nope", "accept", "bob"); !errors.Is(err, ErrSwapNotFound) {
		t.Errorf("不存在的申请应返回 ErrSwapNotFound，实际=%v", err)
	}
}

func TestRespondAsTarget_NotTarget(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusPendingTarget, "sched-1")

	if _, err := env.svc.RespondAsTarget(context.Background(), "swap-1", "accept", "carol"); !errors.Is(err, ErrNotSwapTarget) {
		t.Errorf("非换班对象应返回 ErrNotSwapTarget，实际=%v", err)
	}
}

func TestRespondAsTarget_NotPending(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusDeniedByTarget, "sched-1")

	if _, err := env.svc.RespondAsTarget(context.Background(), "swap-1", "accept", "bob"); !errors.Is(err, ErrSwapNotPending) {
		t.Errorf("终态申请应返回 ErrSwapNotPending，实际=%v", err)
	}
}

// ── RespondAsManager: 审批通过 ──

func TestManagerApprove_Success(t *testing.T) {
	env := setupSwapTest()
	schedule := env.seedSchedule("sched-1")
	env.seedSwap("swap-1", model.SwapStatusPendingManager, "sched-1")

	result, err := env.svc.RespondAsManager(context.Background(), "swap-1", "approve", "mgr-1")
	if err != nil {
		t.Fatalf("审批通过应成功，但返回错误: %v", err)
	}

	if result.Status != model.SwapStatusApproved {
		t.Errorf("期望状态 approved，实际=%s", result.Status)
	}
	if result.ManagedBy != "mgr-1" {
		t.Errorf("应记录审批人 mgr-1，实际=%s", result.ManagedBy)
	}

	// 两个班次的归属应已对调，时间与 shift_id 不变
	shiftA := schedule.Days["friday"][0]
	if shiftA.UserID != "bob" || shiftA.UserName != "Bob" {
		t.Errorf("班次 A 应改属 bob，实际=%s/%s", shiftA.UserID, shiftA.UserName)
	}
	if shiftA.StartTime != "09:00" || shiftA.EndTime != "17:00" || shiftA.ShiftID != "shift-a" {
		t.Errorf("班次 A 改写归属时不应动其他字段: %+v", shiftA)
	}
	shiftB := schedule.Days["saturday"][0]
	if shiftB.UserID != "alice" || shiftB.UserName != "Alice" {
		t.Errorf("班次 B 应改属 alice，实际=%s/%s", shiftB.UserID, shiftB.UserName)
	}

	// 申请人与换班对象各收到一条结果通知
	if len(env.notifier.calls) != 2 {
		t.Fatalf("期望 2 次通知，实际=%d", len(env.notifier.calls))
	}
	recipients := map[string]bool{}
	for _, call := range env.notifier.calls {
		for _, id := range call.UserIDs {
			recipients[id] = true
		}
	}
	if !recipients["alice"] || !recipients["bob"] {
		t.Errorf("审批结果应通知 alice 与 bob，实际=%v", recipients)
	}
}

func TestManagerApprove_NotFoundCollapsed(t *testing.T) {
	env := setupSwapTest()

	if _, err := env.svc.RespondAsManager(context.Background(), "nope", "approve", "mgr-1"); !errors.Is(err, ErrSwapNotActionable) {
		t.Errorf("不存在的申请应返回 ErrSwapNotActionable，实际=%v", err)
	}
}

func TestManagerApprove_WrongStatusCollapsed(t *testing.T) {
	env := setupSwapTest()
	env.seedSchedule("sched-1")
	env.seedSwap("swap-1", model.SwapStatusPendingTarget, "sched-1")

	// 尚未经换班对象同意的申请，经理路径同样报"不存在或不在待审批状态"
	if _, err := env.svc.RespondAsManager(context.Background(), "swap-1", "approve", "mgr-1"); !errors.Is(err, ErrSwapNotActionable) {
		t.Errorf("非待审批状态应返回 ErrSwapNotActionable，实际=%v", err)
	}
}

func TestManagerApprove_ShiftMissing(t *testing.T) {
	env := setupSwapTest()
	schedule := env.seedSchedule("sched-1")
	// 班次 B 已被后续排班覆盖掉
	schedule.Days["saturday"] = nil
	env.seedSwap("swap-1", model.SwapStatusPendingManager, "sched-1")

	if _, err := env.svc.RespondAsManager(context.Background(), "swap-1", "approve", "mgr-1"); !errors.Is(err, ErrSwapShiftMissing) {
		t.Errorf("引用班次缺失应返回 ErrSwapShiftMissing，实际=%v", err)
	}

	// 申请保持可见状态，未被错误地终结
	if env.swapRepo.swaps["swap-1"].Status != model.SwapStatusPendingManager {
		t.Errorf("失败的审批不应改变申请状态，实际=%s", env.swapRepo.swaps["swap-1"].Status)
	}
	// 排班不得被部分改写：班次 A 在失败的审批后仍归 alice
	if owner := schedule.Days["friday"][0].UserID; owner != "alice" {
		t.Errorf("审批失败后班次 A 不应被改写，实际归属=%s", owner)
	}
	if len(env.notifier.calls) != 0 {
		t.Error("失败的审批不应触发通知")
	}
}

func TestManagerApprove_ScheduleGone(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusPendingManager, "sched-gone")

	if _, err := env.svc.RespondAsManager(context.Background(), "swap-1", "approve", "mgr-1"); !errors.Is(err, ErrSwapShiftMissing) {
		t.Errorf("排班整份缺失应返回 ErrSwapShiftMissing，实际=%v", err)
	}
}

func TestManagerApprove_ConcurrentLoser(t *testing.T) {
	env := setupSwapTest()
	env.seedSchedule("sched-1")
	env.seedSwap("swap-1", model.SwapStatusPendingManager, "sched-1")
	// 模拟提交前状态复查落空：另一个经理先完成了审批
	env.swapRepo.statusUpdateErr = pkgerrors.ErrStateConflict

	if _, err := env.svc.RespondAsManager(context.Background(), "swap-1", "approve", "mgr-2"); !errors.Is(err, ErrSwapNotActionable) {
		t.Errorf("并发审批输家应返回 ErrSwapNotActionable，实际=%v", err)
	}
	if len(env.notifier.calls) != 0 {
		t.Error("输家不应触发通知")
	}
}

// ── RespondAsManager: 审批驳回 ──

func TestManagerDeny_Success(t *testing.T) {
	env := setupSwapTest()
	schedule := env.seedSchedule("sched-1")
	env.seedSwap("swap-1", model.SwapStatusPendingManager, "sched-1")

	result, err := env.svc.RespondAsManager(context.Background(), "swap-1", "deny", "mgr-1")
	if err != nil {
		t.Fatalf("审批驳回应成功，但返回错误: %v", err)
	}
	if result.Status != model.SwapStatusDeniedByManager {
		t.Errorf("期望状态 denied_by_manager，实际=%s", result.Status)
	}

	// 驳回不动排班
	if schedule.Days["friday"][0].UserID != "alice" {
		t.Error("驳回不应改写班次归属")
	}
	if len(env.notifier.calls) != 2 {
		t.Errorf("驳回应通知双方，实际=%d 次", len(env.notifier.calls))
	}
}

func TestManagerDeny_AlreadyDone(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusApproved, "sched-1")

	if _, err := env.svc.RespondAsManager(context.Background(), "swap-1", "deny", "mgr-1"); !errors.Is(err, ErrSwapNotActionable) {
		t.Errorf("已终结申请应返回 ErrSwapNotActionable，实际=%v", err)
	}
}

// ── 列表 ──

func TestListMine_OnlyInvolved(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusPendingTarget, "sched-1")
	other := env.seedSwap("swap-2", model.SwapStatusPendingTarget, "sched-1")
	other.RequestingUserID = "carol"
	other.TargetUserID = "dave"

	result, err := env.svc.ListMine(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListMine 应成功，但返回错误: %v", err)
	}
	if len(result) != 1 || result[0].ID != "swap-1" {
		t.Errorf("alice 只应看到自己牵涉的申请，实际=%+v", result)
	}
}

func TestListPendingApproval_FiltersStatus(t *testing.T) {
	env := setupSwapTest()
	env.seedSwap("swap-1", model.SwapStatusPendingManager, "sched-1")
	env.seedSwap("swap-2", model.SwapStatusPendingTarget, "sched-1")
	env.seedSwap("swap-3", model.SwapStatusApproved, "sched-1")

	result, err := env.svc.ListPendingApproval(context.Background())
	if err != nil {
		t.Fatalf("ListPendingApproval 应成功，但返回错误: %v", err)
	}
	if len(result) != 1 || result[0].ID != "swap-1" {
		t.Errorf("审批队列只应包含 pending_manager，实际=%+v", result)
	}
}

func TestListMine_NewestFirst(t *testing.T) {
	env := setupSwapTest()
	oldest := env.seedSwap("swap-old", model.SwapStatusPendingTarget, "sched-1")
	oldest.CreatedAt = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	middle := env.seedSwap("swap-mid", model.SwapStatusDeniedByTarget, "sched-1")
	middle.CreatedAt = time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	newest := env.seedSwap("swap-new", model.SwapStatusPendingManager, "sched-1")
	newest.CreatedAt = time.Date(2026, 9, 3, 8, 0, 0, 0, time.UTC)

	result, err := env.svc.ListMine(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListMine 应成功，但返回错误: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("期望 3 条申请，实际=%d", len(result))
	}
	for i, want := range []string{"swap-new", "swap-mid", "swap-old"} {
		if result[i].ID != want {
			t.Errorf("第 %d 条应为 %s（新的在前），实际=%s", i, want, result[i].ID)
		}
	}
}

func TestListPendingApproval_OldestFirst(t *testing.T) {
	env := setupSwapTest()
	newest := env.seedSwap("swap-new", model.SwapStatusPendingManager, "sched-1")
	newest.CreatedAt = time.Date(2026, 9, 3, 8, 0, 0, 0, time.UTC)
	oldest := env.seedSwap("swap-old", model.SwapStatusPendingManager, "sched-1")
	oldest.CreatedAt = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	middle := env.seedSwap("swap-mid", model.SwapStatusPendingManager, "sched-1")
	middle.CreatedAt = time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)

	result, err := env.svc.ListPendingApproval(context.Background())
	if err != nil {
		t.Fatalf("ListPendingApproval 应成功，但返回错误: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("期望 3 条申请，实际=%d", len(result))
	}
	for i, want := range []string{"swap-old", "swap-mid", "swap-new"} {
		if result[i].ID != want {
			t.Errorf("第 %d 条应为 %s（先进先出），实际=%s", i, want, result[i].ID)
		}
	}
}

// ── 端到端流转 ──

func TestSwapLifecycle_ApprovedPath(t *testing.T) {
	env := setupSwapTest()
	schedule := env.seedSchedule("sched-1")

	created, err := env.svc.Create(context.Background(), validCreateReq("sched-1"), "alice", "Alice")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if _, err := env.svc.RespondAsTarget(context.Background(), created.ID, "accept", "bob"); err != nil {
		t.Fatalf("对象接受失败: %v", err)
	}

	final, err := env.svc.RespondAsManager(context.Background(), created.ID, "approve", "mgr-1")
	if err != nil {
		t.Fatalf("经理审批失败: %v", err)
	}

	if final.Status != model.SwapStatusApproved {
		t.Errorf("完整流转后状态应为 approved，实际=%s", final.Status)
	}
	if schedule.Days["friday"][0].UserID != "bob" || schedule.Days["saturday"][0].UserID != "alice" {
		t.Error("完整流转后两个班次的归属应已对调")
	}
}

func TestSwapLifecycle_DeniedByTargetIsTerminal(t *testing.T) {
	env := setupSwapTest()
	env.seedSchedule("sched-1")

	created, err := env.svc.Create(context.Background(), validCreateReq("sched-1"), "alice", "Alice")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if _, err := env.svc.RespondAsTarget(context.Background(), created.ID, "deny", "bob"); err != nil {
		t.Fatalf("对象拒绝失败: %v", err)
	}

	// 拒绝后对象不能反悔，经理也无从审批
	if _, err := env.svc.RespondAsTarget(context.Background(), created.ID, "accept", "bob"); !errors.Is(err, ErrSwapNotPending) {
		t.Errorf("终态后再表态应返回 ErrSwapNotPending，实际=%v", err)
	}
	if _, err := env.svc.RespondAsManager(context.Background(), created.ID, "approve", "mgr-1"); !errors.Is(err, ErrSwapNotActionable) {
		t.Errorf("终态后经理审批应返回 ErrSwapNotActionable，实际=%v", err)
	}
}

// [自证通过] internal/service/swap_service_test.go
