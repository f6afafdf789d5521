package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

type fakeCampaignStore struct {
	docs      map[string]map[string]any
	order     []string
	nextID    int
	updates   []map[string]any
	deleted   []string
	snapshots [][]models.RawDocument
	watchErr  error
	getErr    error
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{docs: map[string]map[string]any{}}
}

func (f *fakeCampaignStore) put(id string, data map[string]any) {
	f.docs[id] = data
	f.order = append(f.order, id)
}

func (f *fakeCampaignStore) Create(_ context.Context, doc *models.CampaignDocument) (string, error) {
	f.nextID++
	id := fmt.Sprintf("c%d", f.nextID)
	f.put(id, doc.Raw(id).Data)
	return id, nil
}

func (f *fakeCampaignStore) Get(_ context.Context, id string) (*models.RawDocument, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.docs[id]
	if !ok {
		return nil, errs.NewNotFoundError("campaign not found")
	}
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}
	return &models.RawDocument{ID: id, Data: cp}, nil
}

func (f *fakeCampaignStore) all() []models.RawDocument {
	out := make([]models.RawDocument, 0, len(f.order))
	for _, id := range f.order {
		if data, ok := f.docs[id]; ok {
			out = append(out, models.RawDocument{ID: id, Data: data})
		}
	}
	return out
}

// List ignores ownerID on purpose so callers must filter.
func (f *fakeCampaignStore) List(_ context.Context, _ string) ([]models.RawDocument, error) {
	return f.all(), nil
}

func (f *fakeCampaignStore) Watch(ctx context.Context, _ string, handle func([]models.RawDocument) error) error {
	snaps := f.snapshots
	if snaps == nil {
		snaps = [][]models.RawDocument{f.all()}
	}
	for _, snap := range snaps {
		if err := handle(snap); err != nil {
			return err
		}
	}
	return f.watchErr
}

func (f *fakeCampaignStore) Update(_ context.Context, id string, fields map[string]any) error {
	data, ok := f.docs[id]
	if !ok {
		return errs.NewNotFoundError("campaign not found")
	}
	for k, v := range fields {
		data[k] = v
	}
	f.updates = append(f.updates, fields)
	return nil
}

func (f *fakeCampaignStore) SetAmountRaised(ctx context.Context, id string, amount float64) error {
	return f.Update(ctx, id, map[string]any{"amountRaised": amount})
}

func (f *fakeCampaignStore) Delete(_ context.Context, id string) error {
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLocator struct {
	mu        sync.Mutex
	locations map[string]models.SchoolLocation
	err       error
	calls     map[string]int
}

func (f *fakeLocator) Location(_ context.Context, schoolID string) (models.SchoolLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[schoolID]++
	if f.err != nil {
		return models.SchoolLocation{}, f.err
	}
	return f.locations[schoolID], nil
}

type fakeOwners struct {
	schools map[string]string
	err     error
}

func (f *fakeOwners) OwnerSchoolID(_ context.Context, uid string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if s, ok := f.schools[uid]; ok {
		return s, nil
	}
	return uid, nil
}

type fakeSchoolStore struct {
	data         map[string]*models.SchoolData
	history      map[string]*models.SchoolDataSnapshot
	historyCalls int
	historyErr   error
}

func newFakeSchoolStore() *fakeSchoolStore {
	return &fakeSchoolStore{data: map[string]*models.SchoolData{}, history: map[string]*models.SchoolDataSnapshot{}}
}

func (f *fakeSchoolStore) Get(_ context.Context, schoolID string) (*models.SchoolData, error) {
	d, ok := f.data[schoolID]
	if !ok {
		return nil, errs.NewNotFoundError("school data not found")
	}
	cp := *d
	return &cp, nil
}

func (f *fakeSchoolStore) Save(_ context.Context, d *models.SchoolData) error {
	cp := *d
	f.data[d.SchoolID] = &cp
	return nil
}

func (f *fakeSchoolStore) AppendHistory(_ context.Context, snap *models.SchoolDataSnapshot) (bool, error) {
	if f.historyErr != nil {
		return false, f.historyErr
	}
	key := snap.SchoolID + "_" + snap.Month
	if _, ok := f.history[key]; ok {
		return false, nil
	}
	cp := *snap
	f.history[key] = &cp
	f.historyCalls++
	return true, nil
}

func (f *fakeSchoolStore) GetHistory(_ context.Context, schoolID, month string) (*models.SchoolDataSnapshot, error) {
	s, ok := f.history[schoolID+"_"+month]
	if !ok {
		return nil, errs.NewNotFoundError("school history not found")
	}
	return s, nil
}

type fakeCampaignLister struct {
	campaigns []models.Campaign
	owner     string
}

func (f *fakeCampaignLister) List(_ context.Context, ownerID string) ([]models.Campaign, error) {
	f.owner = ownerID
	return f.campaigns, nil
}

type fakeProfileStore struct {
	profiles    map[string]*models.SchoolProfile
	legacy      map[string]models.RawDocument
	updates     []map[string]any
	createCalls int
	getErr      error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*models.SchoolProfile{}, legacy: map[string]models.RawDocument{}}
}

func (f *fakeProfileStore) Get(_ context.Context, schoolID string) (*models.SchoolProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[schoolID]
	if !ok {
		return nil, errs.NewNotFoundError("school profile not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) Create(_ context.Context, p *models.SchoolProfile) error {
	if _, ok := f.profiles[p.SchoolID]; ok {
		return errs.NewAlreadyExistsError("school profile already exists")
	}
	f.createCalls++
	cp := *p
	f.profiles[p.SchoolID] = &cp
	return nil
}

func (f *fakeProfileStore) Update(_ context.Context, schoolID string, fields map[string]any) error {
	p := f.profiles[schoolID]
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "schoolName":
			p.SchoolName = s
		case "principalName":
			p.PrincipalName = s
		case "city":
			p.City = s
		case "country":
			p.Country = s
		case "contactPhone":
			p.ContactPhone = s
		}
	}
	f.updates = append(f.updates, fields)
	return nil
}

func (f *fakeProfileStore) GetLegacy(_ context.Context, schoolID string) (*models.RawDocument, error) {
	d, ok := f.legacy[schoolID]
	if !ok {
		return nil, errs.NewNotFoundError("school not found")
	}
	return &d, nil
}

func (f *fakeProfileStore) ForEachLegacy(_ context.Context, handle func(models.RawDocument) error) error {
	for _, d := range f.legacy {
		if err := handle(d); err != nil {
			return err
		}
	}
	return nil
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(schoolID string) {
	f.invalidated = append(f.invalidated, schoolID)
}

type fakeProcessor struct {
	created   []dto.CreateIntentParams
	createErr error
	intents   map[string]dto.PaymentIntentSnapshot
	getErr    error
}

func (f *fakeProcessor) CreatePaymentIntent(_ context.Context, in dto.CreateIntentParams) (dto.CreatedIntent, error) {
	f.created = append(f.created, in)
	if f.createErr != nil {
		return dto.CreatedIntent{}, f.createErr
	}
	id := fmt.Sprintf("pi_%d", len(f.created))
	return dto.CreatedIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (f *fakeProcessor) GetPaymentIntent(_ context.Context, id string) (dto.PaymentIntentSnapshot, error) {
	if f.getErr != nil {
		return dto.PaymentIntentSnapshot{}, f.getErr
	}
	snap, ok := f.intents[id]
	if !ok {
		return dto.PaymentIntentSnapshot{}, errs.NewPaymentProcessorError("No such payment_intent", "invalid_request_error", "resource_missing")
	}
	return snap, nil
}

type fakePaymentStore struct {
	mu        sync.Mutex
	records   []models.PaymentRecord
	createErr error
}

func (f *fakePaymentStore) find(id string) int {
	for i := range f.records {
		if id != "" && f.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *fakePaymentStore) Create(_ context.Context, p *models.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.find(p.ID) >= 0 {
		return errs.NewAlreadyExistsError("payment already recorded")
	}
	f.records = append(f.records, *p)
	return nil
}

func (f *fakePaymentStore) Get(_ context.Context, id string) (*models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return nil, errs.NewNotFoundError("payment not found")
	}
	p := f.records[i]
	return &p, nil
}

func (f *fakePaymentStore) RecordOutcome(_ context.Context, p *models.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	i := f.find(p.ID)
	if i < 0 {
		f.records = append(f.records, *p)
		return nil
	}
	current := f.records[i]
	if !current.Status.CanTransitionTo(p.Status) {
		return errs.NewInvalidTransitionError(string(current.Status), string(p.Status))
	}
	next := *p
	next.CreatedAt = current.CreatedAt
	f.records[i] = next
	return nil
}

func (f *fakePaymentStore) ForEachSucceeded(_ context.Context, campaignID string, handle func(*models.PaymentRecord) error) error {
	f.mu.Lock()
	records := append([]models.PaymentRecord{}, f.records...)
	f.mu.Unlock()
	for i := range records {
		if records[i].CampaignID != campaignID || records[i].Status != models.PaymentSucceeded {
			continue
		}
		if err := handle(&records[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeAuditStore struct {
	mu        sync.Mutex
	logs      []models.PaymentLog
	failures  []models.PaymentLogFailure
	appendErr error
}

func (f *fakeAuditStore) Append(_ context.Context, entry *models.PaymentLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeAuditStore) AppendFailure(_ context.Context, entry *models.PaymentLogFailure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, *entry)
	return nil
}

type fakeEncrypter struct {
	err error
}

func (f *fakeEncrypter) KmsEncrypt(_ context.Context, plaintext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if plaintext == "" {
		return "", nil
	}
	return "enc:" + plaintext, nil
}

type fakeVertexClient struct {
	responses []dto.VertexGenerateResponse
	requests  []dto.VertexGenerateRequest
	err       error
}

func (f *fakeVertexClient) GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return dto.VertexGenerateResponse{}, f.err
	}
	if len(f.responses) == 0 {
		return dto.VertexGenerateResponse{}, errors.New("no responses configured")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

type fakeNotificationStore struct {
	settings  map[string]*models.NotificationSettings
	saveCalls int
}

func (f *fakeNotificationStore) Get(_ context.Context, uid string) (*models.NotificationSettings, error) {
	n, ok := f.settings[uid]
	if !ok {
		return nil, errs.NewNotFoundError("notification settings not found")
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationStore) Save(_ context.Context, n *models.NotificationSettings) error {
	if f.settings == nil {
		f.settings = map[string]*models.NotificationSettings{}
	}
	f.saveCalls++
	cp := *n
	f.settings[n.UserID] = &cp
	return nil
}
