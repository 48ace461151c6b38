package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/db"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	svc, err := db.NewSqliteService(filepath.Join(t.TempDir(), "test.db"), logger.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return svc.DB()
}

type testFixture struct {
	gdb         *gorm.DB
	taskRepo    repos.TaskRepo
	groupRepo   repos.AnalogGroupRepo
	workRepo    repos.WorkRepo
	variantRepo repos.VariantRepo
	imageRepo   repos.TaskImageRepo
	service     VariantGenerationService
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.Nop()
	f := &testFixture{
		gdb:         gdb,
		taskRepo:    repos.NewTaskRepo(gdb, log),
		groupRepo:   repos.NewAnalogGroupRepo(gdb, log),
		workRepo:    repos.NewWorkRepo(gdb, log),
		variantRepo: repos.NewVariantRepo(gdb, log),
		imageRepo:   repos.NewTaskImageRepo(gdb, log),
	}
	f.service = NewVariantGenerationService(gdb, f.workRepo, f.groupRepo, f.variantRepo, log)
	return f
}

// seedGroup creates a group with n tasks and returns its id and members.
func (f *testFixture) seedGroup(t *testing.T, name string, n int) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	groups, err := f.groupRepo.Create(ctx, nil, []*types.AnalogGroup{{Name: name}})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	groupID := groups[0].ID

	var taskIDs []uuid.UUID
	for i := 0; i < n; i++ {
		tasks, err := f.taskRepo.Create(ctx, nil, []*types.Task{
			{Text: fmt.Sprintf("task %d of %s with $x_{%d}^2$", i+1, name, i+1)},
		})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		if err := f.taskRepo.AddToGroup(ctx, nil, tasks[0].ID, groupID); err != nil {
			t.Fatalf("add task to group: %v", err)
		}
		taskIDs = append(taskIDs, tasks[0].ID)
	}
	return groupID, taskIDs
}

// seedWork creates a work configured with the given (group, quota) pairs.
func (f *testFixture) seedWork(t *testing.T, name string, quotas map[uuid.UUID]int) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	works, err := f.workRepo.Create(ctx, nil, []*types.Work{{Name: name, Duration: 45}})
	if err != nil {
		t.Fatalf("create work: %v", err)
	}
	for groupID, quota := range quotas {
		err := f.workRepo.AddGroup(ctx, nil, &types.WorkAnalogGroup{
			WorkID:        works[0].ID,
			AnalogGroupID: groupID,
			Count:         quota,
		})
		if err != nil {
			t.Fatalf("add group config: %v", err)
		}
	}
	return works[0].ID
}

func TestGenerateVariantsNumbering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	groupID, _ := f.seedGroup(t, "quadratics", 4)
	workID := f.seedWork(t, "test work", map[uuid.UUID]int{groupID: 3})

	first, err := f.service.GenerateVariants(ctx, workID, 3)
	if err != nil {
		t.Fatalf("GenerateVariants: %v", err)
	}
	assertNumbers(t, first.Variants, []int{1, 2, 3})

	second, err := f.service.GenerateVariants(ctx, workID, 3)
	if err != nil {
		t.Fatalf("second GenerateVariants: %v", err)
	}
	assertNumbers(t, second.Variants, []int{4, 5, 6})

	all, err := f.variantRepo.GetByWorkID(ctx, nil, workID)
	if err != nil {
		t.Fatalf("GetByWorkID: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("stored %d variants, want 6", len(all))
	}
}

func assertNumbers(t *testing.T, variants []*types.Variant, want []int) {
	t.Helper()
	if len(variants) != len(want) {
		t.Fatalf("got %d variants, want %d", len(variants), len(want))
	}
	for i, v := range variants {
		if v.Number != want[i] {
			t.Errorf("variant[%d].Number = %d, want %d", i, v.Number, want[i])
		}
	}
}

func TestGenerateVariantsSampling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	groupID, members := f.seedGroup(t, "geometry", 5)
	workID := f.seedWork(t, "sampling work", map[uuid.UUID]int{groupID: 3})

	res, err := f.service.GenerateVariants(ctx, workID, 4)
	if err != nil {
		t.Fatalf("GenerateVariants: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}

	memberSet := make(map[uuid.UUID]bool)
	for _, id := range members {
		memberSet[id] = true
	}

	for _, v := range res.Variants {
		taskIDs, err := f.variantRepo.GetTaskIDs(ctx, nil, v.ID)
		if err != nil {
			t.Fatalf("GetTaskIDs: %v", err)
		}
		if len(taskIDs) != 3 {
			t.Fatalf("variant %d has %d tasks, want 3", v.Number, len(taskIDs))
		}
		seen := make(map[uuid.UUID]bool)
		for _, id := range taskIDs {
			if seen[id] {
				t.Errorf("variant %d contains task %s twice", v.Number, id)
			}
			seen[id] = true
			if !memberSet[id] {
				t.Errorf("variant %d contains task %s outside the group", v.Number, id)
			}
		}
	}
}

func TestGenerateVariantsQuotaExceedsGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	smallID, _ := f.seedGroup(t, "small", 2)
	bigID, _ := f.seedGroup(t, "big", 4)
	workID := f.seedWork(t, "mixed work", map[uuid.UUID]int{smallID: 5, bigID: 2})

	res, err := f.service.GenerateVariants(ctx, workID, 2)
	if err != nil {
		t.Fatalf("GenerateVariants: %v", err)
	}
	if len(res.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(res.Variants))
	}
	// One warning per variant for the undersized group.
	if len(res.Warnings) != 2 {
		t.Fatalf("got warnings %v, want 2", res.Warnings)
	}

	for _, v := range res.Variants {
		taskIDs, err := f.variantRepo.GetTaskIDs(ctx, nil, v.ID)
		if err != nil {
			t.Fatalf("GetTaskIDs: %v", err)
		}
		if len(taskIDs) != 2 {
			t.Fatalf("variant %d has %d tasks, want 2 from the big group only", v.Number, len(taskIDs))
		}
	}
}

func TestGenerateVariantsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("non-positive count", func(t *testing.T) {
		if _, err := f.service.GenerateVariants(ctx, uuid.New(), 0); err == nil {
			t.Fatal("expected error for count 0")
		}
	})

	t.Run("missing work", func(t *testing.T) {
		if _, err := f.service.GenerateVariants(ctx, uuid.New(), 1); err == nil {
			t.Fatal("expected error for unknown work")
		}
	})

	t.Run("no group configuration", func(t *testing.T) {
		workID := f.seedWork(t, "bare work", nil)
		if _, err := f.service.GenerateVariants(ctx, workID, 1); err == nil {
			t.Fatal("expected error for work without groups")
		}
	})

	t.Run("non-positive quota", func(t *testing.T) {
		groupID, _ := f.seedGroup(t, "zero quota group", 3)
		workID := f.seedWork(t, "zero quota work", map[uuid.UUID]int{groupID: 0})
		if _, err := f.service.GenerateVariants(ctx, workID, 1); err == nil {
			t.Fatal("expected error for zero quota")
		}
	})

	t.Run("dangling group reference", func(t *testing.T) {
		workID := f.seedWork(t, "dangling work", map[uuid.UUID]int{uuid.New(): 2})
		if _, err := f.service.GenerateVariants(ctx, workID, 1); err == nil {
			t.Fatal("expected error for reference to a missing group")
		}
	})
}
