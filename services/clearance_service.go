package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/affistack/affiliate_backend/models"
)

// ClearanceService is the clearance-period automation unit of work. It holds
// no schedule of its own; an external cron invokes it, and re-invocation
// after a partial run only touches commissions still pending and eligible.
type ClearanceService struct {
	commissions CommissionStore
	statuses    *StatusService
}

func NewClearanceService(commissions CommissionStore, statuses *StatusService) *ClearanceService {
	return &ClearanceService{
		commissions: commissions,
		statuses:    statuses,
	}
}

// GetCommissionsEligibleForApproval returns pending commissions past their
// clearance period, oldest conversion first
func (s *ClearanceService) GetCommissionsEligibleForApproval(ctx context.Context) ([]models.Commission, error) {
	return s.commissions.FindEligibleForApproval(ctx, time.Now())
}

// BulkApproveEligibleCommissions approves every eligible commission one by
// one. A failure on one item is collected and never blocks the rest.
func (s *ClearanceService) BulkApproveEligibleCommissions(ctx context.Context) (*models.BulkApprovalResult, error) {
	eligible, err := s.GetCommissionsEligibleForApproval(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.BulkApprovalResult{Errors: []models.BulkApprovalError{}}
	for i := range eligible {
		commission := &eligible[i]
		if _, err := s.statuses.ApproveCommission(ctx, commission.ID, nil, false); err != nil {
			result.Errors = append(result.Errors, models.BulkApprovalError{
				CommissionID: commission.ID,
				Error:        err.Error(),
			})
			continue
		}
		result.Approved++
	}

	return result, nil
}

// ProcessAutomatedCommissionUpdates runs the bulk approval and wraps the
// outcome with a human-readable summary for scheduler logs
func (s *ClearanceService) ProcessAutomatedCommissionUpdates(ctx context.Context) (*models.AutomatedUpdateResult, error) {
	result, err := s.BulkApproveEligibleCommissions(ctx)
	if err != nil {
		return nil, err
	}

	if len(result.Errors) > 0 {
		log.Printf("Automated commission updates finished with %d failures", len(result.Errors))
	}

	return &models.AutomatedUpdateResult{
		Summary: fmt.Sprintf("Auto-approved: %d commissions", result.Approved),
		Result:  result,
	}, nil
}
