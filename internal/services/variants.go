package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/types"
)

// VariantGenerationResult carries the created variants plus advisory
// warnings, one per (variant, group) quota that could not be met.
type VariantGenerationResult struct {
	Variants []*types.Variant
	Warnings []string
}

type VariantGenerationService interface {
	GenerateVariants(ctx context.Context, workID uuid.UUID, count int) (*VariantGenerationResult, error)
}

type variantGenerationService struct {
	db          *gorm.DB
	workRepo    repos.WorkRepo
	groupRepo   repos.AnalogGroupRepo
	variantRepo repos.VariantRepo
	log         *logger.Logger
}

func NewVariantGenerationService(
	db *gorm.DB,
	workRepo repos.WorkRepo,
	groupRepo repos.AnalogGroupRepo,
	variantRepo repos.VariantRepo,
	baseLog *logger.Logger,
) VariantGenerationService {
	return &variantGenerationService{
		db:          db,
		workRepo:    workRepo,
		groupRepo:   groupRepo,
		variantRepo: variantRepo,
		log:         baseLog.With("service", "VariantGenerationService"),
	}
}

// GenerateVariants creates count variants for the work in one transaction.
// Numbers come from the work's monotonic counter, so regeneration appends
// new numbers instead of reusing old ones. A group with fewer tasks than
// its quota contributes nothing to that variant; the shortfall is reported
// as a warning, never as a partial draw.
func (s *variantGenerationService) GenerateVariants(ctx context.Context, workID uuid.UUID, count int) (*VariantGenerationResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("variant count must be positive, got %d", count)
	}

	result := &VariantGenerationResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.workRepo.GetByID(ctx, tx, workID); err != nil {
			return fmt.Errorf("load work %s: %w", workID, err)
		}

		cfgs, err := s.workRepo.GetGroups(ctx, tx, workID)
		if err != nil {
			return fmt.Errorf("load group configuration: %w", err)
		}
		if len(cfgs) == 0 {
			return fmt.Errorf("work %s has no group configuration", workID)
		}

		// Misconfiguration fails the whole batch up front; only quota
		// exhaustion degrades to a warning later.
		groupIDs := make([]uuid.UUID, 0, len(cfgs))
		for _, cfg := range cfgs {
			if cfg.Count < 1 {
				return fmt.Errorf("group %s has non-positive quota %d", cfg.AnalogGroupID, cfg.Count)
			}
			groupIDs = append(groupIDs, cfg.AnalogGroupID)
		}
		groups, err := s.groupRepo.GetByIDs(ctx, tx, groupIDs)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		if len(groups) != len(groupIDs) {
			return fmt.Errorf("work %s references %d groups but only %d exist", workID, len(groupIDs), len(groups))
		}

		members := make(map[uuid.UUID][]uuid.UUID, len(cfgs))
		for _, cfg := range cfgs {
			ids, err := s.groupRepo.GetTaskIDs(ctx, tx, cfg.AnalogGroupID)
			if err != nil {
				return fmt.Errorf("load members of group %s: %w", cfg.AnalogGroupID, err)
			}
			members[cfg.AnalogGroupID] = ids
		}

		counter, err := s.workRepo.IncrementVariantCounter(ctx, tx, workID, count)
		if err != nil {
			return err
		}
		firstNumber := counter - count + 1

		for i := 0; i < count; i++ {
			number := firstNumber + i

			var selection []uuid.UUID
			for _, cfg := range cfgs {
				pool := members[cfg.AnalogGroupID]
				if len(pool) < cfg.Count {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("variant %d: group %s has %d tasks but quota is %d, skipped",
							number, cfg.AnalogGroupID, len(pool), cfg.Count))
					continue
				}
				selection = append(selection, sampleTaskIDs(pool, cfg.Count)...)
			}

			variant, err := s.variantRepo.CreateWithTasks(ctx, tx, &types.Variant{
				WorkID: workID,
				Number: number,
			}, selection)
			if err != nil {
				return fmt.Errorf("create variant %d: %w", number, err)
			}
			result.Variants = append(result.Variants, variant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("variants generated",
		"work_id", workID, "count", len(result.Variants), "warnings", len(result.Warnings))
	return result, nil
}

// sampleTaskIDs draws k distinct ids uniformly. Callers guarantee
// k <= len(ids).
func sampleTaskIDs(ids []uuid.UUID, k int) []uuid.UUID {
	picked := make([]uuid.UUID, len(ids))
	copy(picked, ids)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:k]
}
