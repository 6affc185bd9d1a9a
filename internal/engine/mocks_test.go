package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/outwell/callscope/internal/model"
)

// mockStore is a test implementation of every storage collaborator. It records
// calls and returns configurable errors.
type mockStore struct {
	mu sync.Mutex

	call   *model.Call
	tenant *model.TenantConfig

	getCallErr     error
	getTenantErr   error
	statusErrs     map[model.ProcessingStatus]error
	saveResultsErr error
	transitionErr  error
	replaceErr     error
	costErr        error
	auditErr       error

	rejectTransition bool

	statuses     []statusUpdate
	savedResults []model.CallResults
	transitions  []string
	objections   []model.ObjectionRecord
	costs        []model.CostUsage
	audits       []model.AuditEntry
}

type statusUpdate struct {
	status model.ProcessingStatus
	errMsg string
}

func newMockStore() *mockStore {
	return &mockStore{
		call: &model.Call{
			ID:         "call-1",
			ClientID:   "client-1",
			CloserName: "Alex",
			Transcript: "stored transcript",
			Stage:      "New Lead",
		},
		tenant: &model.TenantConfig{ClientID: "client-1"},
	}
}

func (m *mockStore) GetCall(_ context.Context, callID, clientID string) (*model.Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getCallErr != nil {
		return nil, m.getCallErr
	}
	if m.call == nil || m.call.ID != callID || m.call.ClientID != clientID {
		return nil, fmt.Errorf("call %s not found", callID)
	}
	callCopy := *m.call
	return &callCopy, nil
}

func (m *mockStore) GetTenantConfig(_ context.Context, clientID string) (*model.TenantConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getTenantErr != nil {
		return nil, m.getTenantErr
	}
	if m.tenant == nil || m.tenant.ClientID != clientID {
		return nil, fmt.Errorf("tenant %s not found", clientID)
	}
	tenantCopy := *m.tenant
	return &tenantCopy, nil
}

func (m *mockStore) SetProcessingStatus(_ context.Context, _, _ string, status model.ProcessingStatus, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.statusErrs[status]; err != nil {
		return err
	}
	m.statuses = append(m.statuses, statusUpdate{status: status, errMsg: errMsg})
	return nil
}

func (m *mockStore) SaveResults(_ context.Context, _, _ string, results model.CallResults) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveResultsErr != nil {
		return m.saveResultsErr
	}
	m.savedResults = append(m.savedResults, results)
	return nil
}

func (m *mockStore) TransitionStage(_ context.Context, _, _, newStage, _ string, _ model.CallResults) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transitionErr != nil {
		return false, m.transitionErr
	}
	if m.rejectTransition {
		return false, nil
	}
	m.transitions = append(m.transitions, newStage)
	return true, nil
}

func (m *mockStore) ReplaceObjections(_ context.Context, callID, clientID string, objections []model.ObjectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	kept := m.objections[:0]
	for _, o := range m.objections {
		if o.CallID != callID || o.ClientID != clientID {
			kept = append(kept, o)
		}
	}
	m.objections = append(kept, objections...)
	return nil
}

func (m *mockStore) RecordCost(_ context.Context, usage model.CostUsage) (*model.CostRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.costErr != nil {
		return nil, m.costErr
	}
	m.costs = append(m.costs, usage)
	rate := model.ModelRate{InputPerMillion: 3, OutputPerMillion: 15}
	return &model.CostRecord{
		ID:           fmt.Sprintf("cost-%d", len(m.costs)),
		ClientID:     usage.ClientID,
		CallID:       usage.CallID,
		Model:        usage.Model,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		TotalCostUSD: rate.Cost(usage.InputTokens, usage.OutputTokens),
	}, nil
}

func (m *mockStore) LogAudit(_ context.Context, entry model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auditErr != nil {
		return m.auditErr
	}
	m.audits = append(m.audits, entry)
	return nil
}

// seqIDs generates predictable identifiers for assertions.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}
