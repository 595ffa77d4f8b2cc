package catalog

import (
	"context"
	"strings"
	"sync"

	"finitefield.org/catalog-admin/internal/admin/productform"
)

// DemoProductID is seeded with sample data by NewStaticService.
const DemoProductID = "demo"

// StaticService serves characteristics from memory for local development and tests.
type StaticService struct {
	mu    sync.RWMutex
	seeds map[string]productform.Seed
}

// NewStaticService constructs a StaticService. A nil map installs the demo product.
func NewStaticService(seeds map[string]productform.Seed) *StaticService {
	if seeds == nil {
		seeds = map[string]productform.Seed{DemoProductID: demoSeed()}
	}
	return &StaticService{seeds: seeds}
}

// Characteristics returns the stored seed, or an empty one for unknown products.
func (s *StaticService) Characteristics(ctx context.Context, token, productID string) (productform.Seed, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if seed, ok := s.seeds[productID]; ok {
		return seed, nil
	}
	return productform.Seed{}, nil
}

// Put replaces the seed of a product.
func (s *StaticService) Put(productID string, seed productform.Seed) {
	s.mu.Lock()
	s.seeds[productID] = seed
	s.mu.Unlock()
}

func demoSeed() productform.Seed {
	return productform.Seed{
		productform.FormDescription: {
			{
				productform.FieldDescriptionRU:    "Керамическая кружка ручной работы.",
				productform.FieldDescriptionUZ:    "Qo'lda yasalgan sopol krujka.",
				productform.FieldDescriptionImage: "/public/static/demo-mug.svg",
			},
		},
		productform.FormVariations: {
			{
				productform.FieldNameRU:         "Синий",
				productform.FieldNameUZ:         "Ko'k",
				productform.FieldVariationColor: "#1d4ed8",
				productform.FieldVariationImage: "",
			},
		},
		productform.FormFeatures: {
			{
				productform.FieldFeatureID:   "FR",
				productform.FieldFeatureName: "Страна производства",
			},
		},
	}
}

// StaticSubmitter records submissions instead of sending them.
type StaticSubmitter struct {
	mu          sync.Mutex
	submissions []Submission
	Err         error
	Response    []byte
}

// Submit records sub and returns the configured response or error.
func (s *StaticSubmitter) Submit(ctx context.Context, sub Submission) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	if s.Err != nil {
		return Result{}, s.Err
	}
	body := s.Response
	if body == nil {
		body = []byte(`{"status":"ok"}`)
	}
	return Result{Status: 200, Body: body}, nil
}

// Submissions returns a copy of the recorded submissions.
func (s *StaticSubmitter) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}
