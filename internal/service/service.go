package service

import (
	"fmt"
	"io"
	"sync"
	"time"

	"familytree/internal/codec"
	"familytree/internal/domain"
	"familytree/internal/logger"

	"go.uber.org/zap"
)

// Options configures a FamilyService
type Options struct {
	Policy           domain.PartnerPolicy
	Clock            func() time.Time
	RederiveOnImport bool
	Logger           *zap.Logger
	Metrics          *Metrics
	EventBus         *EventBus
}

// FamilyService serializes access to a FamilyGraph and reports what
// inference did through logs, events and metrics.
type FamilyService struct {
	mu               sync.Mutex
	graph            *domain.FamilyGraph
	policy           domain.PartnerPolicy
	clock            func() time.Time
	rederiveOnImport bool
	logger           *zap.Logger
	metrics          *Metrics
	eventBus         *EventBus
}

// NewFamilyService creates a service around an empty graph
func NewFamilyService(opts Options) *FamilyService {
	s := &FamilyService{
		policy:           opts.Policy,
		clock:            opts.Clock,
		rederiveOnImport: opts.RederiveOnImport,
		logger:           logger.OrNop(opts.Logger),
		metrics:          opts.Metrics,
		eventBus:         opts.EventBus,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	s.graph = s.newGraph()
	return s
}

func (s *FamilyService) newGraph() *domain.FamilyGraph {
	return domain.NewFamilyGraph(
		domain.WithPartnerPolicy(s.policy),
		domain.WithClock(s.clock),
	)
}

// ImportResult summarizes an import
type ImportResult struct {
	Inserted       int               `json:"inserted"`
	Duplicates     int               `json:"duplicates"`
	SelfReferences int               `json:"self_references"`
	IDConflicts    int               `json:"id_conflicts"`
	Changes        int               `json:"changes"`
	Conflicts      []domain.Conflict `json:"conflicts,omitempty"`
}

func (r *ImportResult) record(result domain.AddResult) {
	switch result.Status {
	case domain.StatusInserted:
		r.Inserted++
	case domain.StatusDuplicateIgnored:
		r.Duplicates++
	case domain.StatusInvalidSelfReference:
		r.SelfReferences++
	case domain.StatusIDConflict:
		r.IDConflicts++
	}
	r.Changes += result.Changes
	r.Conflicts = append(r.Conflicts, result.Conflicts...)
}

// Add registers a single record
func (s *FamilyService) Add(p *domain.Person) domain.AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(p)
}

func (s *FamilyService) addLocked(p *domain.Person) domain.AddResult {
	result := s.graph.Add(p)
	s.metrics.observeAdd(result, s.graph.Len())

	if !result.Inserted() {
		fields := []zap.Field{zap.String("status", string(result.Status))}
		if p != nil {
			fields = append(fields, zap.Int("id", int(p.ID)), zap.String("name", p.Name))
		}
		s.logger.Debug("Record ignored", fields...)
		s.eventBus.Publish(Event{Type: EventPersonIgnored, Payload: result.Status})
		return result
	}

	s.logger.Debug("Record added",
		zap.Int("id", int(p.ID)),
		zap.String("name", p.Name),
		zap.Int("changes", result.Changes))
	s.eventBus.Publish(Event{
		Type:    EventPersonAdded,
		Payload: map[string]any{"id": p.ID, "name": p.Name, "changes": result.Changes},
	})

	for _, c := range result.Conflicts {
		s.logger.Warn("Partner conflict", zap.Stringer("conflict", c))
		s.eventBus.Publish(Event{Type: EventPartnerConflict, Payload: c})
	}
	return result
}

// Import builds the fragment's records and adds them in order
func (s *FamilyService) Import(fragment *domain.Fragment) (*ImportResult, error) {
	people, err := fragment.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.importLocked(people)
	s.eventBus.Publish(Event{Type: EventPopulationImported, Payload: result})
	return result, nil
}

func (s *FamilyService) importLocked(people []*domain.Person) *ImportResult {
	result := &ImportResult{}
	for _, p := range people {
		result.record(s.addLocked(p))
	}
	if s.rederiveOnImport {
		result.Changes += s.rederiveLocked()
	}

	s.logger.Info("Population imported",
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("self_references", result.SelfReferences),
		zap.Int("id_conflicts", result.IDConflicts),
		zap.Int("changes", result.Changes),
		zap.Int("conflicts", len(result.Conflicts)))
	return result
}

// ImportFrom parses r with importer and imports the result
func (s *FamilyService) ImportFrom(r io.Reader, importer codec.Importer) (*ImportResult, error) {
	fragment, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}
	return s.Import(fragment)
}

// Reload replaces the population with the fragment's records.
// The current graph is kept when the fragment cannot be built.
func (s *FamilyService) Reload(fragment *domain.Fragment) (*ImportResult, error) {
	people, err := fragment.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.graph = s.newGraph()
	result := s.importLocked(people)
	s.eventBus.Publish(Event{Type: EventPopulationReloaded, Payload: result})
	return result, nil
}

// Rederive re-runs inference over the whole population
func (s *FamilyService) Rederive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rederiveLocked()
}

func (s *FamilyService) rederiveLocked() int {
	changes := s.graph.RederiveAll()
	s.metrics.observeRederive(changes, s.graph.Len())
	s.logger.Debug("Relationships rederived", zap.Int("changes", changes))
	s.eventBus.Publish(Event{Type: EventRelationsRederived, Payload: changes})
	return changes
}

// Report renders the human-readable population dump
func (s *FamilyService) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Report(s.clock())
}

// Snapshot captures the population including inferred relationships
func (s *FamilyService) Snapshot() *domain.Fragment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot(s.graph)
}

// Export writes a snapshot with exporter
func (s *FamilyService) Export(w io.Writer, exporter codec.Exporter) error {
	return exporter.Export(s.Snapshot(), w)
}

// Len returns the population size
func (s *FamilyService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Len()
}

// Conflicts returns partner conflicts observed by the current graph
func (s *FamilyService) Conflicts() []domain.Conflict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Conflicts()
}
