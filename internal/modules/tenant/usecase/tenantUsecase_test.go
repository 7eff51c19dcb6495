package usecase

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moiport/config"
	"moiport/internal/modules/tenant"
	"moiport/internal/modules/user"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTenantRepo struct {
	tenants      map[uint]*tenant.Tenant
	invites      map[string]*tenant.Invite
	nextID       uint
	markUsedErr  error
	uploadedKeys []string
	deletedKeys  []string
	uploadErr    error
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		tenants: make(map[uint]*tenant.Tenant),
		invites: make(map[string]*tenant.Invite),
		nextID:  1,
	}
}

func (r *fakeTenantRepo) CreateTenant(t *tenant.Tenant) (*tenant.Tenant, error) {
	t.TenantID = r.nextID
	r.nextID++
	stored := *t
	r.tenants[t.TenantID] = &stored
	return t, nil
}

func (r *fakeTenantRepo) GetTenantByID(tenantID uint) (*tenant.Tenant, error) {
	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	copy := *t
	return &copy, nil
}

func (r *fakeTenantRepo) UpdateTenant(t *tenant.Tenant) (*tenant.Tenant, error) {
	stored := *t
	r.tenants[t.TenantID] = &stored
	return t, nil
}

func (r *fakeTenantRepo) CreateInvite(inv *tenant.Invite) (*tenant.Invite, error) {
	inv.InviteID = r.nextID
	r.nextID++
	stored := *inv
	r.invites[inv.Token] = &stored
	return inv, nil
}

func (r *fakeTenantRepo) GetInviteByToken(token string) (*tenant.Invite, error) {
	inv, ok := r.invites[token]
	if !ok {
		return nil, tenant.ErrInviteNotFound
	}
	copy := *inv
	return &copy, nil
}

func (r *fakeTenantRepo) MarkInviteUsed(inviteID uint, usedAt time.Time) error {
	if r.markUsedErr != nil {
		return r.markUsedErr
	}
	for _, inv := range r.invites {
		if inv.InviteID == inviteID {
			if inv.UsedAt != nil {
				return tenant.ErrInviteUsed
			}
			inv.UsedAt = &usedAt
			return nil
		}
	}
	return tenant.ErrInviteNotFound
}

func (r *fakeTenantRepo) UploadLogo(s3Key string, imageBytes []byte, contentType string) error {
	if r.uploadErr != nil {
		return r.uploadErr
	}
	r.uploadedKeys = append(r.uploadedKeys, s3Key)
	return nil
}

func (r *fakeTenantRepo) DeleteLogo(s3Key string) error {
	r.deletedKeys = append(r.deletedKeys, s3Key)
	return nil
}

func (r *fakeTenantRepo) GetLogoPublicURL(s3Key string) string {
	return "https://cdn.example.com/" + s3Key
}

func newTestTenantUseCase(repo *fakeTenantRepo) tenant.UseCase {
	appCfg := config.AppConfig{FrontendURL: "http://localhost:3000", InviteTTL: 48 * time.Hour}
	return NewTenantUseCase(repo, nil, appCfg, discardLogger())
}

func TestInviteStaff_CreatesTokenWithTTL(t *testing.T) {
	repo := newFakeTenantRepo()
	repo.tenants[7] = &tenant.Tenant{TenantID: 7, Name: "Acme Agency"}
	uc := newTestTenantUseCase(repo)

	before := time.Now()
	resp, err := uc.InviteStaff(7, 5, &tenant.InviteStaffRequest{Email: "new@acme.test", Role: user.RoleStaff})
	require.NoError(t, err)

	assert.Equal(t, "new@acme.test", resp.Email)
	assert.Equal(t, user.RoleStaff, resp.Role)
	_, parseErr := uuid.Parse(resp.Token)
	assert.NoError(t, parseErr)
	assert.WithinDuration(t, before.Add(48*time.Hour), resp.ExpiresAt, time.Minute)
}

func TestInviteStaff_RejectsUnknownRole(t *testing.T) {
	repo := newFakeTenantRepo()
	repo.tenants[7] = &tenant.Tenant{TenantID: 7, Name: "Acme Agency"}
	uc := newTestTenantUseCase(repo)

	_, err := uc.InviteStaff(7, 5, &tenant.InviteStaffRequest{Email: "new@acme.test", Role: user.Role("OWNER")})
	require.Error(t, err)
	assert.Empty(t, repo.invites)
}

func TestConsumeInvite_HappyPath(t *testing.T) {
	repo := newFakeTenantRepo()
	repo.tenants[7] = &tenant.Tenant{TenantID: 7, Name: "Acme Agency"}
	uc := newTestTenantUseCase(repo)

	inv, err := uc.InviteStaff(7, 5, &tenant.InviteStaffRequest{Email: "new@acme.test", Role: user.RoleStaff})
	require.NoError(t, err)

	consumed, err := uc.ConsumeInvite(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), consumed.TenantID)
	assert.Equal(t, user.RoleStaff, consumed.Role)

	// Second consumption of the same token fails.
	_, err = uc.ConsumeInvite(inv.Token)
	assert.ErrorIs(t, err, tenant.ErrInviteUsed)
}

func TestConsumeInvite_UnknownToken(t *testing.T) {
	uc := newTestTenantUseCase(newFakeTenantRepo())

	_, err := uc.ConsumeInvite(uuid.NewString())
	assert.ErrorIs(t, err, tenant.ErrInviteNotFound)
}

func TestConsumeInvite_Expired(t *testing.T) {
	repo := newFakeTenantRepo()
	token := uuid.NewString()
	repo.invites[token] = &tenant.Invite{
		InviteID:  1,
		TenantID:  7,
		Email:     "late@acme.test",
		Role:      user.RoleStaff,
		Token:     token,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	uc := newTestTenantUseCase(repo)

	_, err := uc.ConsumeInvite(token)
	assert.ErrorIs(t, err, tenant.ErrInviteExpired)
	// The token is not burned; expiry is terminal anyway.
	assert.Nil(t, repo.invites[token].UsedAt)
}

func TestConsumeInvite_ConcurrentBurnLoses(t *testing.T) {
	repo := newFakeTenantRepo()
	token := uuid.NewString()
	repo.invites[token] = &tenant.Invite{
		InviteID:  1,
		TenantID:  7,
		Email:     "racer@acme.test",
		Role:      user.RoleStaff,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.markUsedErr = tenant.ErrInviteUsed
	uc := newTestTenantUseCase(repo)

	// The conditional update lost the race: the error is surfaced even
	// though the read saw an unused invite.
	_, err := uc.ConsumeInvite(token)
	assert.ErrorIs(t, err, tenant.ErrInviteUsed)
}

func TestUploadLogo_SwapsKeyAndDeletesOld(t *testing.T) {
	repo := newFakeTenantRepo()
	oldKey := "tenants/7/logo_old_512.webp"
	repo.tenants[7] = &tenant.Tenant{TenantID: 7, Name: "Acme Agency", LogoS3Key: &oldKey}
	uc := newTestTenantUseCase(repo)

	resp, err := uc.UploadLogo(7, []byte("thumb"), []byte("full"))
	require.NoError(t, err)

	require.Len(t, repo.uploadedKeys, 2)
	assert.Contains(t, repo.uploadedKeys[0], "_512.webp")
	assert.Contains(t, repo.uploadedKeys[1], "_128.webp")
	assert.Equal(t, []string{oldKey}, repo.deletedKeys)
	require.NotNil(t, resp.LogoURL)
	assert.Contains(t, *resp.LogoURL, "_512.webp")
}

func TestUploadLogo_UploadFailureKeepsOldKey(t *testing.T) {
	repo := newFakeTenantRepo()
	oldKey := "tenants/7/logo_old_512.webp"
	repo.tenants[7] = &tenant.Tenant{TenantID: 7, Name: "Acme Agency", LogoS3Key: &oldKey}
	repo.uploadErr = errors.New("s3 down")
	uc := newTestTenantUseCase(repo)

	_, err := uc.UploadLogo(7, []byte("thumb"), []byte("full"))
	require.Error(t, err)
	assert.Equal(t, &oldKey, repo.tenants[7].LogoS3Key)
	assert.Empty(t, repo.deletedKeys)
}
