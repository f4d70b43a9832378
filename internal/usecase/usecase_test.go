package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jobspace-backend/internal/domain"
	"jobspace-backend/internal/usecase"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/auth"
	"jobspace-backend/pkg/security/antivirus"
	"jobspace-backend/pkg/validation"
)

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Patch(ctx context.Context, id string, patch domain.Patch) (*domain.Candidate, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Fetch(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockOfferRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOfferRepo) Patch(ctx context.Context, id int64, patch domain.Patch) (*domain.Offer, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyStatusChange(ctx context.Context, c domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Put(ctx context.Context, name, contentType string, data []byte) error {
	return m.Called(ctx, name, contentType, data).Error(0)
}

func (m *MockFileStorage) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockFileStorage) URL(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Name() string { return "mock" }

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Counts(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Ping(_ context.Context) error { return s.err }

type stubScanner struct{ result antivirus.ScanResult }

func (s stubScanner) Scan(context.Context, string, []byte) antivirus.ScanResult { return s.result }
func (s stubScanner) Name() string                                              { return "stub" }
func (s stubScanner) Available(context.Context) bool                            { return true }

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestRegisterCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject a candidate without id", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

		err := uc.RegisterCandidate(ctx, &domain.Candidate{LastName: "Diop"})
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should default status to en_attente", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(c *domain.Candidate) bool {
			return c.Status == domain.StatusPending
		})).Return(nil)
		uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

		c := &domain.Candidate{ID: domain.NewRecordID("c1"), LastName: "Diop"}
		require.NoError(t, uc.RegisterCandidate(ctx, c))
		assert.Equal(t, domain.StatusPending, c.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Should reject an unknown status", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

		err := uc.RegisterCandidate(ctx, &domain.Candidate{ID: domain.NewRecordID("c1"), Status: "valide"})
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	})

	t.Run("Should hide persistence errors", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))
		uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

		err := uc.RegisterCandidate(ctx, &domain.Candidate{ID: domain.NewRecordID("c1")})
		assert.Equal(t, http.StatusInternalServerError, statusCode(t, err))
		assert.Equal(t, "Erreur lors de l'enregistrement", err.Error())
	})
}

func TestUpdateCandidate(t *testing.T) {
	ctx := context.Background()
	accepted := domain.Patch{"statut": json.RawMessage(`"accepte"`)}

	t.Run("Should return not found with a French message", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		repo.On("Patch", ctx, "zzz", mock.Anything).Return(nil, domain.ErrNotFound)
		uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

		_, err := uc.UpdateCandidate(ctx, "zzz", domain.Patch{"nom": json.RawMessage(`"X"`)})
		assert.Equal(t, http.StatusNotFound, statusCode(t, err))
		assert.Equal(t, "Candidat non trouvé", err.Error())
	})

	t.Run("Should reject an invalid status before touching the store", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

		_, err := uc.UpdateCandidate(ctx, "c1", domain.Patch{"statut": json.RawMessage(`"maybe"`)})
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
		repo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should notify the candidate of a decision", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		notifier := new(MockNotifier)
		before := &domain.Candidate{ID: domain.NewRecordID("c1"), Email: "awa@example.sn", Status: domain.StatusPending}
		after := &domain.Candidate{ID: domain.NewRecordID("c1"), Email: "awa@example.sn", Status: domain.StatusAccepted}
		repo.On("GetByID", ctx, "c1").Return(before, nil)
		repo.On("Patch", ctx, "c1", accepted).Return(after, nil)
		notifier.On("NotifyStatusChange", ctx, *after).Return(nil)
		uc := usecase.NewCandidateUsecase(repo, notifier, validation.New())

		got, err := uc.UpdateCandidate(ctx, "c1", accepted)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, got.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("Should not notify when the status is unchanged", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		notifier := new(MockNotifier)
		same := &domain.Candidate{ID: domain.NewRecordID("c1"), Email: "awa@example.sn", Status: domain.StatusAccepted}
		repo.On("GetByID", ctx, "c1").Return(same, nil)
		repo.On("Patch", ctx, "c1", accepted).Return(same, nil)
		uc := usecase.NewCandidateUsecase(repo, notifier, validation.New())

		_, err := uc.UpdateCandidate(ctx, "c1", accepted)
		require.NoError(t, err)
		notifier.AssertNotCalled(t, "NotifyStatusChange", mock.Anything, mock.Anything)
	})

	t.Run("Should not fail when the email cannot be sent", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		notifier := new(MockNotifier)
		after := &domain.Candidate{ID: domain.NewRecordID("c1"), Email: "awa@example.sn", Status: domain.StatusRejected}
		refused := domain.Patch{"statut": json.RawMessage(`"refuse"`)}
		repo.On("GetByID", ctx, "c1").Return(nil, domain.ErrNotFound)
		repo.On("Patch", ctx, "c1", refused).Return(after, nil)
		notifier.On("NotifyStatusChange", ctx, *after).Return(errors.New("smtp down"))
		uc := usecase.NewCandidateUsecase(repo, notifier, validation.New())

		_, err := uc.UpdateCandidate(ctx, "c1", refused)
		assert.NoError(t, err)
	})
}

func TestDeleteCandidate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	repo.On("Delete", ctx, "c1").Return(nil).Once()
	repo.On("Delete", ctx, "c1").Return(domain.ErrNotFound).Once()
	repo.On("Delete", ctx, "c2").Return(domain.ErrStoreBroken)
	uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

	require.NoError(t, uc.DeleteCandidate(ctx, "c1"))
	assert.Equal(t, http.StatusNotFound, statusCode(t, uc.DeleteCandidate(ctx, "c1")))

	err := uc.DeleteCandidate(ctx, "c2")
	assert.Equal(t, http.StatusInternalServerError, statusCode(t, err))
	assert.Equal(t, "Erreur lors de la suppression", err.Error())
}

func TestFilterCandidates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	repo.On("Fetch", ctx).Return([]domain.Candidate{
		{ID: domain.NewRecordID("a"), Specialty: "Informatique"},
		{ID: domain.NewRecordID("b"), Specialty: "Informatique", Status: domain.StatusAccepted},
		{ID: domain.NewRecordID("c"), Specialty: "Gestion"},
	}, nil)
	uc := usecase.NewCandidateUsecase(repo, nil, validation.New())

	got, err := uc.FilterCandidates(ctx, domain.CandidateFilter{Status: domain.StatusPending, Specialty: "Informatique"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID.String())
}

func TestPublishOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("Should drop the client id", func(t *testing.T) {
		repo := new(MockOfferRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(o *domain.Offer) bool { return o.ID == 0 })).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Offer).ID = 6 }).
			Return(nil)
		uc := usecase.NewOfferUsecase(repo, validation.New())

		o := &domain.Offer{ID: 1718000000000, Titre: "Dev"}
		require.NoError(t, uc.PublishOffer(ctx, o))
		assert.Equal(t, int64(6), o.ID)
	})

	t.Run("Should reject an unknown offer type", func(t *testing.T) {
		uc := usecase.NewOfferUsecase(new(MockOfferRepo), validation.New())
		err := uc.PublishOffer(ctx, &domain.Offer{Type: "Bénévolat"})
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	})

	t.Run("Should report save failures", func(t *testing.T) {
		repo := new(MockOfferRepo)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrStoreBroken)
		uc := usecase.NewOfferUsecase(repo, validation.New())

		err := uc.PublishOffer(ctx, &domain.Offer{Title: "Dev"})
		assert.Equal(t, "Erreur lors de l'enregistrement de l'offre", err.Error())
	})
}

func TestUpdateOfferIgnoresID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOfferRepo)
	repo.On("Patch", ctx, int64(3), domain.Patch{"titre": json.RawMessage(`"Dev senior"`)}).
		Return(&domain.Offer{ID: 3, Titre: "Dev senior"}, nil)
	repo.On("Patch", ctx, int64(9), mock.Anything).Return(nil, domain.ErrNotFound)
	uc := usecase.NewOfferUsecase(repo, validation.New())

	got, err := uc.UpdateOffer(ctx, 3, domain.Patch{
		"id":    json.RawMessage(`42`),
		"titre": json.RawMessage(`"Dev senior"`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)

	_, err = uc.UpdateOffer(ctx, 9, domain.Patch{})
	assert.Equal(t, "Offre non trouvée", err.Error())
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

func TestStoreFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return only the submitted fields", func(t *testing.T) {
		files := new(MockFileStorage)
		files.On("Put", ctx, mock.MatchedBy(func(name string) bool {
			return len(name) > 3 && name[:3] == "cv-"
		}), "application/pdf", pdfBytes).Return(nil)
		uc := usecase.NewUploadUsecase(files, nil, 10<<20)

		paths, err := uc.StoreFiles(ctx, []domain.UploadedFile{{Field: "cv", Filename: "cv.pdf", Data: pdfBytes}})
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Regexp(t, `^/uploads/cv-\d+-\d+\.pdf$`, paths["cv"])
		files.AssertExpectations(t)
	})

	t.Run("Should refuse oversized files and store nothing", func(t *testing.T) {
		files := new(MockFileStorage)
		uc := usecase.NewUploadUsecase(files, nil, 16)

		_, err := uc.StoreFiles(ctx, []domain.UploadedFile{
			{Field: "cv", Data: []byte("%PDF-1.4")},
			{Field: "lettre", Data: bytes.Repeat([]byte("a"), 17)},
		})
		assert.Equal(t, http.StatusRequestEntityTooLarge, statusCode(t, err))
		files.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should refuse content outside the whitelist", func(t *testing.T) {
		files := new(MockFileStorage)
		uc := usecase.NewUploadUsecase(files, nil, 10<<20)

		_, err := uc.StoreFiles(ctx, []domain.UploadedFile{{Field: "cv", Data: []byte("MZ\x90\x00\x03\x00\x00\x00")}})
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	})

	t.Run("Should refuse infected files", func(t *testing.T) {
		files := new(MockFileStorage)
		scanner := stubScanner{result: antivirus.ScanResult{Infected: true, ThreatName: "Eicar-Test-Signature"}}
		uc := usecase.NewUploadUsecase(files, scanner, 10<<20)

		_, err := uc.StoreFiles(ctx, []domain.UploadedFile{{Field: "cv", Data: pdfBytes}})
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	})

	t.Run("Should remove stored files when a later write fails", func(t *testing.T) {
		files := new(MockFileStorage)
		var first string
		files.On("Put", ctx, mock.MatchedBy(func(n string) bool { return n[:3] == "cv-" }), mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { first = args.String(1) }).Return(nil)
		files.On("Put", ctx, mock.MatchedBy(func(n string) bool { return n[:7] == "diplome" }), mock.Anything, mock.Anything).
			Return(errors.New("bucket gone"))
		files.On("Delete", ctx, mock.Anything).Return(nil)
		uc := usecase.NewUploadUsecase(files, nil, 10<<20)

		_, err := uc.StoreFiles(ctx, []domain.UploadedFile{
			{Field: "cv", Data: pdfBytes},
			{Field: "diplome", Data: pdfBytes},
		})
		assert.Equal(t, http.StatusInternalServerError, statusCode(t, err))
		assert.Equal(t, "Erreur lors de l'upload des fichiers", err.Error())
		files.AssertCalled(t, "Delete", ctx, first)
	})

	t.Run("Should refuse unknown fields", func(t *testing.T) {
		uc := usecase.NewUploadUsecase(new(MockFileStorage), nil, 10<<20)
		_, err := uc.StoreFiles(ctx, []domain.UploadedFile{{Field: "photo", Data: pdfBytes}})
		assert.Equal(t, http.StatusBadRequest, statusCode(t, err))
	})
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	accounts, err := usecase.ParseAccounts([]string{"admin@jobspace.sn:" + string(hash)}, domain.RoleAdmin)
	require.NoError(t, err)

	repo := new(MockCandidateRepo)
	repo.On("Fetch", ctx).Return([]domain.Candidate{
		{ID: domain.NewRecordID("c1"), Email: "awa@example.sn", Password: "secret", LastName: "Diop", FirstName: "Awa"},
	}, nil)
	uc := usecase.NewAuthUsecase(accounts, repo, auth.NewIssuer("test-secret", time.Hour))

	t.Run("Should log in a configured admin", func(t *testing.T) {
		session, err := uc.Login(ctx, "Admin@JobSpace.sn", "admin-pass")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, session.User.Role)

		user, err := uc.Verify(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin@jobspace.sn", user.Email)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})

	t.Run("Should log in a candidate by email and password", func(t *testing.T) {
		session, err := uc.Login(ctx, "awa@example.sn", "secret")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCandidate, session.User.Role)
		assert.Equal(t, "c1", session.User.ID)
		assert.Equal(t, "Diop", session.User.LastName)
	})

	t.Run("Should reject bad credentials", func(t *testing.T) {
		_, err := uc.Login(ctx, "awa@example.sn", "wrong")
		assert.Equal(t, http.StatusUnauthorized, statusCode(t, err))
	})

	t.Run("Should reject a forged token", func(t *testing.T) {
		other := auth.NewIssuer("other-secret", time.Hour)
		token, err := other.Issue("x", auth.Claims{Email: "x@x.sn", Role: "admin"})
		require.NoError(t, err)
		_, err = uc.Verify(ctx, token)
		assert.Equal(t, http.StatusUnauthorized, statusCode(t, err))
	})
}

func TestParseAccountsRejectsPlainPasswords(t *testing.T) {
	_, err := usecase.ParseAccounts([]string{"admin@jobspace.sn:admin123"}, domain.RoleAdmin)
	assert.Error(t, err)
	_, err = usecase.ParseAccounts([]string{"no-separator"}, domain.RoleAdmin)
	assert.Error(t, err)
}

func TestSystemHealth(t *testing.T) {
	uc := usecase.NewSystemUsecase(new(MockStatsRepo),
		stubChecker{name: "db_file"},
		stubChecker{name: "redis", err: errors.New("connection refused")},
	)

	h := uc.Health(context.Background())
	assert.Equal(t, "OK", h.Status)
	assert.Equal(t, "Serveur en cours d'exécution", h.Message)
	assert.Equal(t, map[string]string{"db_file": "ok", "redis": "error"}, h.Checks)
}

func TestSystemStats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStatsRepo)
	repo.On("Counts", ctx).Return(nil, errors.New("pool closed"))
	uc := usecase.NewSystemUsecase(repo)

	_, err := uc.Stats(ctx)
	assert.Equal(t, http.StatusInternalServerError, statusCode(t, err))
}

func TestExportCandidates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidateRepo)
	repo.On("Fetch", ctx).Return([]domain.Candidate{{ID: domain.NewRecordID("a")}}, nil)
	uc := usecase.NewExportUsecase(usecase.NewCandidateUsecase(repo, nil, validation.New()))

	var buf bytes.Buffer
	require.NoError(t, uc.ExportCandidates(ctx, domain.CandidateFilter{}, &buf))
	assert.Equal(t, []byte("PK"), buf.Bytes()[:2], "xlsx is a zip archive")
}
