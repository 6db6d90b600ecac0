package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/inventory-system/internal/alert"
	"github.com/rogerio-castellano/inventory-system/internal/audit"
	"github.com/rogerio-castellano/inventory-system/internal/models"
	"github.com/rogerio-castellano/inventory-system/internal/repo"
)

// MaxRecommendations caps the alternatives suggested for an out of stock product.
const MaxRecommendations = 3

// Receipt describes the outcome of a purchase request, including every
// message shown to the buyer.
type Receipt struct {
	ProductID       string
	Quantity        int
	Remaining       int
	Available       int
	LowStockAlert   bool
	RestockDate     string
	Recommendations []models.Product
	Messages        []string
}

// InventoryService owns the catalog and reports every decision to the audit
// log and to the buyer. It is safe for concurrent use.
type InventoryService struct {
	mu        sync.Mutex
	products  repo.ProductRepository
	purchases repo.PurchaseRepository
	audit     audit.Recorder
	alerter   alert.StaffAlerter
	out       io.Writer
	now       func() time.Time
}

// NewInventoryService creates the service. A nil recorder discards audit
// records and a nil out discards buyer messages.
func NewInventoryService(products repo.ProductRepository, recorder audit.Recorder, out io.Writer) *InventoryService {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	if out == nil {
		out = io.Discard
	}
	return &InventoryService{
		products: products,
		audit:    recorder,
		out:      out,
		now:      time.Now,
	}
}

func (s *InventoryService) SetPurchaseRepo(r repo.PurchaseRepository) {
	s.purchases = r
}

func (s *InventoryService) SetAlerter(a alert.StaffAlerter) {
	s.alerter = a
}

// AddProduct registers the product, overwriting any product with the same ID.
func (s *InventoryService) AddProduct(ctx context.Context, p models.Product) error {
	if err := validateProduct(p); err != nil {
		s.audit.Record(audit.LevelWarning, fmt.Sprintf("Rejected product %q: %v", p.ID, err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced, err := s.products.Save(ctx, p)
	if err != nil {
		s.audit.Record(audit.LevelSevere, fmt.Sprintf("Could not save product %s: %v", p.ID, err))
		return fmt.Errorf("failed to add product %s: %w", p.ID, err)
	}

	if replaced {
		s.audit.Record(audit.LevelWarning, "Replaced existing product: "+p.ID)
	}
	s.audit.Record(audit.LevelInfo, fmt.Sprintf("Added product: %s - %s", p.ID, p.Name))
	return nil
}

func validateProduct(p models.Product) error {
	var problems []string
	if strings.TrimSpace(p.ID) == "" {
		problems = append(problems, "id is required")
	}
	if p.Stock < 0 {
		problems = append(problems, "stock cannot be negative")
	}
	if p.Threshold < 0 {
		problems = append(problems, "threshold cannot be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProduct, strings.Join(problems, ", "))
	}
	return nil
}

// PurchaseProduct takes quantity units of the product. Every outcome is
// reported to the audit log and the buyer before returning; the error tells
// programmatic callers which outcome happened.
func (s *InventoryService) PurchaseProduct(ctx context.Context, productID string, quantity int) (Receipt, error) {
	r := Receipt{ProductID: productID, Quantity: quantity}

	pending, err := s.purchase(ctx, &r)
	if pending != nil && s.alerter != nil {
		if notifyErr := s.alerter.Notify(ctx, *pending); notifyErr != nil {
			s.audit.Record(audit.LevelWarning, fmt.Sprintf("Could not deliver staff alert for %s: %v", pending.ProductID, notifyErr))
		}
	}
	return r, err
}

func (s *InventoryService) purchase(ctx context.Context, r *Receipt) (*alert.LowStockAlert, error) {
	if r.Quantity <= 0 {
		s.audit.Record(audit.LevelWarning, fmt.Sprintf("Invalid quantity %d requested for %s", r.Quantity, r.ProductID))
		s.say(r, "Quantity must be a positive number.")
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.GetByID(ctx, r.ProductID)
	if errors.Is(err, repo.ErrProductNotFound) {
		s.audit.Record(audit.LevelSevere, fmt.Sprintf("Product ID %s not found.", r.ProductID))
		s.say(r, "Product not found.")
		return nil, ErrProductNotFound
	}
	if err != nil {
		s.audit.Record(audit.LevelSevere, fmt.Sprintf("Could not load product %s: %v", r.ProductID, err))
		return nil, fmt.Errorf("failed to load product %s: %w", r.ProductID, err)
	}

	r.Available = product.Stock

	if product.Stock == 0 {
		s.outOfStock(ctx, r, product)
		return nil, ErrOutOfStock
	}

	if r.Quantity > product.Stock {
		return nil, s.insufficient(r, product)
	}

	updated, err := s.products.DecrementStock(ctx, product.ID, r.Quantity)
	if errors.Is(err, repo.ErrInsufficientStock) {
		// Another writer of the shared store got there first.
		if current, getErr := s.products.GetByID(ctx, product.ID); getErr == nil {
			product = current
		}
		r.Available = product.Stock
		if product.Stock == 0 {
			s.outOfStock(ctx, r, product)
			return nil, ErrOutOfStock
		}
		return nil, s.insufficient(r, product)
	}
	if err != nil {
		s.audit.Record(audit.LevelSevere, fmt.Sprintf("Could not update stock for %s: %v", product.ID, err))
		return nil, fmt.Errorf("failed to update stock for %s: %w", product.ID, err)
	}

	r.Remaining = updated.Stock
	r.Available = updated.Stock
	s.audit.Record(audit.LevelInfo, fmt.Sprintf("Purchased %d of %s. Remaining stock: %d", r.Quantity, updated.Name, updated.Stock))
	s.say(r, "Purchase successful: %d of %s. Remaining stock: %d", r.Quantity, updated.Name, updated.Stock)
	s.logPurchase(ctx, updated, r.Quantity)

	if updated.LowStock() {
		a := s.sendStaffAlert(r, updated)
		return &a, nil
	}
	return nil, nil
}

func (s *InventoryService) outOfStock(ctx context.Context, r *Receipt, p models.Product) {
	s.audit.Record(audit.LevelWarning, "Out of stock: "+p.Name)
	s.say(r, "Sorry, '%s' is currently out of stock.", p.Name)
	r.Recommendations = s.recommendSimilar(ctx, r, p.Category, p.ID)
	r.RestockDate = p.RestockDate
	s.say(r, "Estimated restock date: %s", p.RestockDate)
}

func (s *InventoryService) insufficient(r *Receipt, p models.Product) error {
	s.audit.Record(audit.LevelWarning, fmt.Sprintf("Not enough stock for %s. Requested: %d, Available: %d", p.Name, r.Quantity, p.Stock))
	s.say(r, "Only %d units available.", p.Stock)
	return &InsufficientStockError{ProductID: p.ID, Requested: r.Quantity, Available: p.Stock}
}

func (s *InventoryService) logPurchase(ctx context.Context, p models.Product, quantity int) {
	if s.purchases == nil {
		return
	}
	err := s.purchases.Log(ctx, models.Purchase{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Quantity:  quantity,
		Remaining: p.Stock,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.audit.Record(audit.LevelWarning, fmt.Sprintf("Could not record purchase of %s: %v", p.ID, err))
	}
}

// recommendSimilar tells the buyer about up to MaxRecommendations in-stock
// products of the same category, in catalog order.
func (s *InventoryService) recommendSimilar(ctx context.Context, r *Receipt, category, excludeID string) []models.Product {
	s.say(r, "You may also like:")
	similar, err := s.similar(ctx, category, excludeID)
	if err != nil {
		s.audit.Record(audit.LevelWarning, fmt.Sprintf("Could not load recommendations for %s: %v", excludeID, err))
		return nil
	}
	for _, p := range similar {
		s.say(r, " - %s (In stock: %d)", p.Name, p.Stock)
	}
	return similar
}

func (s *InventoryService) similar(ctx context.Context, category, excludeID string) ([]models.Product, error) {
	all, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []models.Product{}
	for _, p := range all {
		if p.Category == category && p.ID != excludeID && p.Stock > 0 {
			matches = append(matches, p)
			if len(matches) == MaxRecommendations {
				break
			}
		}
	}
	return matches, nil
}

// Recommend returns the alternatives that would be suggested for productID.
func (s *InventoryService) Recommend(ctx context.Context, productID string) ([]models.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, repo.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.similar(ctx, p.Category, p.ID)
}

func (s *InventoryService) sendStaffAlert(r *Receipt, p models.Product) alert.LowStockAlert {
	a := alert.LowStockAlert{
		ProductID: p.ID,
		Name:      p.Name,
		Stock:     p.Stock,
		Threshold: p.Threshold,
		Time:      s.now().UTC(),
	}
	msg := a.Message()
	s.audit.Record(audit.LevelWarning, msg)
	s.say(r, "%s", msg)
	r.LowStockAlert = true
	return a
}

func (s *InventoryService) say(r *Receipt, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Messages = append(r.Messages, msg)
	fmt.Fprintln(s.out, msg)
}
