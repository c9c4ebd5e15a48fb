package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"retailpos/internal/core/appctx"
	"retailpos/internal/core/apperror"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/user"
)

type fakeUsers struct {
	byID   map[int64]*user.User
	nextID int64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int64]*user.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *user.User) error {
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id)
	}
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, u *user.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := f.byID[id]
	if !ok {
		return apperror.NewNotFound("user", id)
	}
	u.IsActive = active
	return nil
}

func (f *fakeUsers) List(context.Context, domain.ListFilter) (domain.ListResult[*user.User], error) {
	return domain.ListResult[*user.User]{}, nil
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	jwtCfg := DefaultJWTConfig("test-secret")
	jwtCfg.TokenTTL = time.Minute
	return NewService(users, passthroughTx{}, NewJWTService(jwtCfg)), users
}

func seedUser(t *testing.T, users *fakeUsers, username, password, role string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := user.New(username)
	u.PasswordHash = string(hash)
	u.Role = role
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestLogin_IssuesValidToken(t *testing.T) {
	svc, users := newService(t)
	seedUser(t, users, "sara", "secret1", appctx.RoleAdmin)

	sess, err := svc.Login(context.Background(), Credentials{Username: "sara", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", sess.TokenType)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	uc, err := svc.ValidateToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, uc.UserID)
	assert.Equal(t, "sara", uc.Username)
	assert.Equal(t, appctx.RoleAdmin, uc.Role)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, users := newService(t)
	seedUser(t, users, "sara", "secret1", appctx.RoleCashier)

	_, err1 := svc.Login(context.Background(), Credentials{Username: "sara", Password: "wrong"})
	_, err2 := svc.Login(context.Background(), Credentials{Username: "nobody", Password: "secret1"})
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, err1.Error(), err2.Error())
	assert.True(t, apperror.IsCode(err1, apperror.CodeUnauthorized))
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, users := newService(t)
	u := seedUser(t, users, "sara", "secret1", appctx.RoleCashier)
	require.NoError(t, users.SetActive(context.Background(), u.ID, false))

	_, err := svc.Login(context.Background(), Credentials{Username: "sara", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestValidateToken_RejectsForeignSignature(t *testing.T) {
	svc, users := newService(t)
	seedUser(t, users, "sara", "secret1", appctx.RoleCashier)
	sess, err := svc.Login(context.Background(), Credentials{Username: "sara", Password: "secret1"})
	require.NoError(t, err)

	other := NewJWTService(DefaultJWTConfig("other-secret"))
	_, err = other.ValidateToken(sess.Token)
	require.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, CreateUserInput{
		Username: "omar", Password: "secret1", FullName: "Omar", Role: appctx.RoleCashier,
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	sess, err := svc.Login(ctx, Credentials{Username: "omar", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
}

func TestCreateUser_Rejections(t *testing.T) {
	svc, users := newService(t)
	seedUser(t, users, "sara", "secret1", appctx.RoleCashier)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "sara", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "new", Password: "short"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "new", Password: "secret1", Role: "boss"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestChangePassword_SelfNeedsCurrentPassword(t *testing.T) {
	svc, users := newService(t)
	u := seedUser(t, users, "sara", "secret1", appctx.RoleCashier)
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: u.ID, Username: u.Username, Role: u.Role,
	})

	err := svc.ChangePassword(ctx, u.ID, "wrong", "newpass1")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "secret1", "newpass1"))
	_, err = svc.Login(context.Background(), Credentials{Username: "sara", Password: "newpass1"})
	require.NoError(t, err)
}

func TestChangePassword_AdminOverridesAnyAccount(t *testing.T) {
	svc, users := newService(t)
	admin := seedUser(t, users, "boss", "secret1", appctx.RoleAdmin)
	u := seedUser(t, users, "sara", "secret1", appctx.RoleCashier)
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: admin.ID, Username: admin.Username, Role: admin.Role,
	})

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "", "newpass1"))

	cashierCtx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: u.ID, Username: u.Username, Role: u.Role,
	})
	err := svc.ChangePassword(cashierCtx, admin.ID, "secret1", "hacked1")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}
