package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/softsellhq/softsell-backend/internal/auth"
	"github.com/softsellhq/softsell-backend/internal/licenses"
	"github.com/softsellhq/softsell-backend/internal/proofs"
	"github.com/softsellhq/softsell-backend/internal/users"
	pkgAuth "github.com/softsellhq/softsell-backend/pkg/auth"
	"github.com/softsellhq/softsell-backend/pkg/config"
	"github.com/softsellhq/softsell-backend/pkg/enums"
	"github.com/softsellhq/softsell-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req auth.UpdateProfileRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubLicenseService struct{}

func (stubLicenseService) Submit(ctx context.Context, actor licenses.Actor, input licenses.SubmitInput) (*licenses.LicenseView, error) {
	return &licenses.LicenseView{}, nil
}

func (stubLicenseService) List(ctx context.Context, params licenses.ListParams) (*licenses.ListResult, error) {
	return &licenses.ListResult{}, nil
}

func (stubLicenseService) GetByID(ctx context.Context, actor licenses.Actor, id uuid.UUID) (*licenses.LicenseView, error) {
	return &licenses.LicenseView{}, nil
}

func (stubLicenseService) Approve(ctx context.Context, actor licenses.Actor, id uuid.UUID, price decimal.Decimal) (*licenses.LicenseView, error) {
	return &licenses.LicenseView{}, nil
}

func (stubLicenseService) Reject(ctx context.Context, actor licenses.Actor, id uuid.UUID) (*licenses.LicenseView, error) {
	return &licenses.LicenseView{}, nil
}

func (stubLicenseService) Buy(ctx context.Context, actor licenses.Actor, id uuid.UUID) (*licenses.LicenseView, error) {
	return &licenses.LicenseView{}, nil
}

func (stubLicenseService) ListMyPurchases(ctx context.Context, params licenses.ListParams) (*licenses.ListResult, error) {
	return &licenses.ListResult{}, nil
}

func (stubLicenseService) MarkAsPaid(ctx context.Context, actor licenses.Actor, id uuid.UUID) (*licenses.LicenseView, error) {
	return &licenses.LicenseView{}, nil
}

func (stubLicenseService) ListExpiredUnpaid(ctx context.Context, actor licenses.Actor) ([]licenses.PayoutItem, error) {
	return nil, nil
}

func (stubLicenseService) Delete(ctx context.Context, actor licenses.Actor, id uuid.UUID) error {
	return nil
}

type stubProofService struct{}

func (stubProofService) Submit(ctx context.Context, actor proofs.Actor, input proofs.SubmitInput) (*proofs.ProofView, error) {
	return &proofs.ProofView{}, nil
}

func (stubProofService) ListPending(ctx context.Context, actor proofs.Actor) ([]proofs.PendingProofItem, error) {
	return nil, nil
}

func (stubProofService) Approve(ctx context.Context, actor proofs.Actor, id uuid.UUID) (*proofs.ProofView, error) {
	return &proofs.ProofView{}, nil
}

func (stubProofService) Reject(ctx context.Context, actor proofs.Actor, id uuid.UUID) (*proofs.ProofView, error) {
	return &proofs.ProofView{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "softsell",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             stubPinger{},
		SessionChecker: stubSessionChecker{},
		AuthService:    stubAuthService{},
		LicenseService: stubLicenseService{},
		ProofService:   stubProofService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestLicenseGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/licenses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestLicenseListAdmitsAnyAuthenticatedRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/licenses", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestLicenseSubmitRequiresSellerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/licenses", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-seller got %d", resp.Code)
	}
}

func TestExpiredSoldRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	user := httptest.NewRequest(http.MethodGet, "/api/v1/licenses/expired-sold", nil)
	user.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, user)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/licenses/expired-sold", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestProofReviewRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchase/proofs", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}
}

func TestBuyRequiresUserRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/licenses/"+uuid.NewString()+"/buy", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for seller buying got %d", resp.Code)
	}
}
