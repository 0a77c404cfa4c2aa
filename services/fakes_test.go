package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
)

// fakeCommissionStore is an in-memory CommissionStore mirroring the
// repository's conditional-update semantics, including the unique
// customer+product constraint.
type fakeCommissionStore struct {
	commissions map[primitive.ObjectID]*models.Commission

	// failStatusUpdateFor makes UpdateStatusIfCurrent report a lost race for
	// one commission, to exercise partial-failure paths
	failStatusUpdateFor primitive.ObjectID
}

func newFakeCommissionStore() *fakeCommissionStore {
	return &fakeCommissionStore{commissions: map[primitive.ObjectID]*models.Commission{}}
}

func (s *fakeCommissionStore) add(c *models.Commission) *models.Commission {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	clone := *c
	s.commissions[c.ID] = &clone
	return c
}

func (s *fakeCommissionStore) Create(ctx context.Context, commission *models.Commission) error {
	for _, existing := range s.commissions {
		if existing.CustomerID == commission.CustomerID && existing.ProductID == commission.ProductID {
			return models.NewDuplicateError("Commission already exists for this customer and product")
		}
	}
	commission.ID = primitive.NewObjectID()
	now := time.Now()
	commission.CreatedAt = now
	commission.UpdatedAt = now
	clone := *commission
	s.commissions[commission.ID] = &clone
	return nil
}

func (s *fakeCommissionStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Commission, error) {
	c, ok := s.commissions[id]
	if !ok {
		return nil, models.NewNotFoundError("Commission not found")
	}
	clone := *c
	return &clone, nil
}

func (s *fakeCommissionStore) ExistsForCustomerAndProduct(ctx context.Context, customerID, productID primitive.ObjectID) (bool, error) {
	for _, c := range s.commissions {
		if c.CustomerID == customerID && c.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeCommissionStore) UpdateStatusIfCurrent(ctx context.Context, id primitive.ObjectID, expected, next models.CommissionStatus, approvalDate *time.Time) (bool, error) {
	if id == s.failStatusUpdateFor {
		return false, nil
	}
	c, ok := s.commissions[id]
	if !ok || c.Status != expected {
		return false, nil
	}
	c.Status = next
	if approvalDate != nil {
		c.ApprovalDate = approvalDate
	}
	c.UpdatedAt = time.Now()
	return true, nil
}

func (s *fakeCommissionStore) ApplyAmountDelta(ctx context.Context, id primitive.ObjectID, delta float64, allowedStatuses []models.CommissionStatus) (bool, error) {
	c, ok := s.commissions[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, status := range allowedStatuses {
		if c.Status == status {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	if delta < 0 && c.CommissionAmount < -delta {
		return false, nil
	}
	c.CommissionAmount += delta
	c.UpdatedAt = time.Now()
	return true, nil
}

func (s *fakeCommissionStore) FindEligibleForApproval(ctx context.Context, now time.Time) ([]models.Commission, error) {
	var eligible []models.Commission
	for _, c := range s.commissions {
		if c.IsEligibleForApproval(now) {
			eligible = append(eligible, *c)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].ConversionDate.Before(eligible[j].ConversionDate)
	})
	return eligible, nil
}

func (s *fakeCommissionStore) FindByMarketer(ctx context.Context, marketerID primitive.ObjectID) ([]models.Commission, error) {
	result := []models.Commission{}
	for _, c := range s.commissions {
		if c.MarketerID == marketerID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *fakeCommissionStore) FindInWindow(ctx context.Context, start, end *time.Time) ([]models.Commission, error) {
	result := []models.Commission{}
	for _, c := range s.commissions {
		if start != nil && c.ConversionDate.Before(*start) {
			continue
		}
		if end != nil && c.ConversionDate.After(*end) {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (s *fakeCommissionStore) SummaryByMarketer(ctx context.Context, marketerID primitive.ObjectID) (*models.CommissionSummary, error) {
	summary := &models.CommissionSummary{MarketerID: marketerID}
	for _, c := range s.commissions {
		if c.MarketerID != marketerID {
			continue
		}
		switch c.Status {
		case models.CommissionStatusPending:
			summary.PendingCount++
			summary.PendingAmount += c.CommissionAmount
		case models.CommissionStatusApproved:
			summary.ApprovedCount++
			summary.ApprovedAmount += c.CommissionAmount
		case models.CommissionStatusPaid:
			summary.PaidCount++
			summary.PaidAmount += c.CommissionAmount
		case models.CommissionStatusClawedBack:
			summary.ClawedBackCount++
			summary.ClawedBackAmount += c.CommissionAmount
		}
	}
	summary.TotalEarned = summary.PendingAmount + summary.ApprovedAmount + summary.PaidAmount
	return summary, nil
}

func (s *fakeCommissionStore) SumApprovedAmount(ctx context.Context, marketerID primitive.ObjectID) (float64, error) {
	var sum float64
	for _, c := range s.commissions {
		if c.MarketerID == marketerID && c.Status == models.CommissionStatusApproved {
			sum += c.CommissionAmount
		}
	}
	return sum, nil
}

func (s *fakeCommissionStore) FindIDsByMarketer(ctx context.Context, marketerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	for _, c := range s.commissions {
		if c.MarketerID == marketerID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (s *fakeCommissionStore) CountInWindow(ctx context.Context, start, end *time.Time, marketerID *primitive.ObjectID) (int64, error) {
	var count int64
	for _, c := range s.commissions {
		if marketerID != nil && c.MarketerID != *marketerID {
			continue
		}
		if start != nil && c.ConversionDate.Before(*start) {
			continue
		}
		if end != nil && c.ConversionDate.After(*end) {
			continue
		}
		count++
	}
	return count, nil
}

// fakeAdjustmentStore is an in-memory append-only ledger. Insertion order is
// made strictly monotonic so sort-by-createdAt assertions are deterministic.
type fakeAdjustmentStore struct {
	entries []models.CommissionAdjustment
	clock   time.Time

	// failInsert makes every Insert fail, to exercise ledger-write failures
	failInsert error
}

func newFakeAdjustmentStore() *fakeAdjustmentStore {
	return &fakeAdjustmentStore{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeAdjustmentStore) Insert(ctx context.Context, adjustment *models.CommissionAdjustment) error {
	if s.failInsert != nil {
		return s.failInsert
	}
	adjustment.ID = primitive.NewObjectID()
	s.clock = s.clock.Add(time.Second)
	adjustment.CreatedAt = s.clock
	s.entries = append(s.entries, *adjustment)
	return nil
}

func (s *fakeAdjustmentStore) FindByCommission(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	result := []models.CommissionAdjustment{}
	for _, e := range s.entries {
		if e.CommissionID == commissionID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *fakeAdjustmentStore) FindStatusHistory(ctx context.Context, commissionID primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	result := []models.CommissionAdjustment{}
	for _, e := range s.entries {
		if e.CommissionID == commissionID && e.AdjustmentType == models.AdjustmentTypeStatusChange {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *fakeAdjustmentStore) FindClawbacks(ctx context.Context, start, end *time.Time, commissionIDs []primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	result := []models.CommissionAdjustment{}
	for _, e := range s.entries {
		if e.AdjustmentType != models.AdjustmentTypeClawback {
			continue
		}
		if start != nil && e.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && e.CreatedAt.After(*end) {
			continue
		}
		if commissionIDs != nil {
			found := false
			for _, id := range commissionIDs {
				if e.CommissionID == id {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *fakeAdjustmentStore) SumByCommission(ctx context.Context, commissionID primitive.ObjectID) (float64, error) {
	var sum float64
	for _, e := range s.entries {
		if e.CommissionID == commissionID {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (s *fakeAdjustmentStore) byType(adjustmentType models.AdjustmentType) []models.CommissionAdjustment {
	result := []models.CommissionAdjustment{}
	for _, e := range s.entries {
		if e.AdjustmentType == adjustmentType {
			result = append(result, e)
		}
	}
	return result
}

type fakeMarketerStore struct {
	marketers map[primitive.ObjectID]*models.Marketer
}

func newFakeMarketerStore() *fakeMarketerStore {
	return &fakeMarketerStore{marketers: map[primitive.ObjectID]*models.Marketer{}}
}

func (s *fakeMarketerStore) add(status models.MarketerStatus) primitive.ObjectID {
	id := primitive.NewObjectID()
	s.marketers[id] = &models.Marketer{ID: id, FullName: "Test Marketer", Status: status}
	return id
}

func (s *fakeMarketerStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Marketer, error) {
	m, ok := s.marketers[id]
	if !ok {
		return nil, models.NewNotFoundError("Marketer not found")
	}
	return m, nil
}

type fakeProductStore struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[primitive.ObjectID]*models.Product{}}
}

func (s *fakeProductStore) add(p models.Product) primitive.ObjectID {
	id := primitive.NewObjectID()
	p.ID = id
	s.products[id] = &p
	return id
}

func (s *fakeProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, models.NewNotFoundError("Product not found")
	}
	return p, nil
}

// captureNotifier records emitted events for assertions
type captureNotifier struct {
	events []CommissionEvent
}

func (n *captureNotifier) NotifyCommissionEvent(ctx context.Context, event CommissionEvent) {
	n.events = append(n.events, event)
}
