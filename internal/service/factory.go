package service

import (
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/snapshot"
	"bmgrades.app/tracker/internal/store"
)

type Services struct {
	stores        *store.Stores
	txRunner      TxRunner
	catalog       *curriculum.Catalog
	snapshots     snapshot.Store
	extractor     extraction.Extractor
	defaultBMType curriculum.BMType
	maxImageBytes int

	gradebook GradebookService
}

type Deps struct {
	Stores        *store.Stores
	TxRunner      TxRunner
	Catalog       *curriculum.Catalog
	Snapshots     snapshot.Store
	Extractor     extraction.Extractor // nil when no vision model is configured
	DefaultBMType curriculum.BMType
	MaxImageBytes int
}

func NewServices(deps Deps) *Services {
	s := &Services{
		stores:        deps.Stores,
		txRunner:      deps.TxRunner,
		catalog:       deps.Catalog,
		snapshots:     deps.Snapshots,
		extractor:     deps.Extractor,
		defaultBMType: deps.DefaultBMType,
		maxImageBytes: deps.MaxImageBytes,
	}
	// One gradebook service per process: it owns the per-user locks.
	s.gradebook = NewGradebookService(s.catalog, s.snapshots, s.stores, s.txRunner, s.defaultBMType)
	return s
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users(), s.defaultBMType)
}

func (s *Services) Gradebook() GradebookService {
	return s.gradebook
}

func (s *Services) Scans() ScanService {
	return NewScanService(s.extractor, s.gradebook, s.catalog, s.maxImageBytes)
}

func (s *Services) Catalog() *curriculum.Catalog {
	return s.catalog
}
