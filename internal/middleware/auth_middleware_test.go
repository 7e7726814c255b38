package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mferp/internal/models"
	"mferp/internal/permissions"
	"mferp/pkg/jwt"
	"mferp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ========== 测试替身 ==========

type fakeUserSource struct {
	users map[uint]*models.User
}

func (f *fakeUserSource) GetByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gormNotFound{}
	}
	return user, nil
}

// 权限判定与服务层一致：停用 → 拒绝；超级管理员 → 放行；否则查矩阵
func (f *fakeUserSource) HasPermission(userID uint, module, feature, action string) (bool, error) {
	user, ok := f.users[userID]
	if !ok {
		return false, gormNotFound{}
	}
	if !user.IsActive {
		return false, nil
	}
	if user.IsSuperAdmin() {
		return true, nil
	}
	return permissions.Can(user.Matrix(), module, feature, action), nil
}

func (f *fakeUserSource) HasRole(userID uint, role string) (bool, error) {
	user, ok := f.users[userID]
	if !ok {
		return false, gormNotFound{}
	}
	return user.Role == role || user.IsSuperAdmin(), nil
}

type gormNotFound struct{}

func (gormNotFound) Error() string { return "record not found" }

type fakeBlacklist struct {
	revoked map[string]bool
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

// ========== 测试脚手架 ==========

type authFixture struct {
	auth       *AuthMiddleware
	users      *fakeUserSource
	blacklist  *fakeBlacklist
	jwtManager *jwt.JWTManager
}

func newAuthFixture() *authFixture {
	users := &fakeUserSource{users: make(map[uint]*models.User)}
	blacklist := &fakeBlacklist{revoked: make(map[string]bool)}
	jwtManager := jwt.NewJWTManager("test-secret", time.Hour)

	return &authFixture{
		auth:       NewAuthMiddlewareWith(users, blacklist, jwtManager),
		users:      users,
		blacklist:  blacklist,
		jwtManager: jwtManager,
	}
}

func (f *authFixture) addUser(id uint, role string, active bool, matrix permissions.Matrix) *models.User {
	companyID := uint(1)
	user := &models.User{
		Username:  "user" + role,
		Role:      role,
		IsActive:  active,
		CompanyID: &companyID,
	}
	user.ID = id
	if matrix != nil {
		user.SetMatrix(matrix)
	}
	f.users.users[id] = user
	return user
}

func (f *authFixture) tokenFor(user *models.User) string {
	companyID := uint(0)
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	token, _ := f.jwtManager.GenerateToken(user.ID, companyID, user.Username, user.Role, user.IsSuperAdmin())
	return token
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})
	router.GET("/protected", chain...)
	return router
}

// ========== RequireLogin ==========

func TestRequireLoginNoHeader(t *testing.T) {
	f := newAuthFixture()
	router := protectedRouter(f.auth.RequireLogin())

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLoginBadToken(t *testing.T) {
	f := newAuthFixture()
	router := protectedRouter(f.auth.RequireLogin())

	w := doRequest(router, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLoginWrongSecret(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSales, true, permissions.DefaultMatrix(permissions.RoleSales))

	other := jwt.NewJWTManager("other-secret", time.Hour)
	token, err := other.GenerateToken(user.ID, 1, user.Username, user.Role, false)
	require.NoError(t, err)

	router := protectedRouter(f.auth.RequireLogin())
	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLoginRevokedToken(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSales, true, permissions.DefaultMatrix(permissions.RoleSales))
	token := f.tokenFor(user)

	claims, err := f.jwtManager.VerifyToken(token)
	require.NoError(t, err)
	f.blacklist.revoked[claims.ID] = true

	router := protectedRouter(f.auth.RequireLogin())
	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLoginUserGone(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSales, true, nil)
	token := f.tokenFor(user)
	delete(f.users.users, 1)

	router := protectedRouter(f.auth.RequireLogin())
	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLoginInactiveUser(t *testing.T) {
	// 停用是总开关：矩阵内容再宽也一律拒绝
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSales, false, permissions.DefaultMatrix(permissions.RoleSales))
	token := f.tokenFor(user)

	router := protectedRouter(f.auth.RequireLogin())
	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLoginSetsContext(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser(7, permissions.RoleSales, true, permissions.DefaultMatrix(permissions.RoleSales))
	token := f.tokenFor(user)

	router := gin.New()
	router.GET("/protected", f.auth.RequireLogin(), func(c *gin.Context) {
		current, ok := CurrentUser(c)
		require.True(t, ok)
		assert.Equal(t, uint(7), current.ID)

		companyID, ok := CurrentCompanyID(c)
		require.True(t, ok)
		assert.Equal(t, uint(1), companyID)

		response.Success(c, nil)
	})

	w := doRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ========== RequirePermission ==========

func TestRequirePermissionGranted(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSales, true, permissions.DefaultMatrix(permissions.RoleSales))
	token := f.tokenFor(user)

	router := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequirePermission(permissions.ModuleSales, "myCustomers", permissions.ActionView),
	)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDenied(t *testing.T) {
	// 销售访问生产模块的接口：403
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSales, true, permissions.DefaultMatrix(permissions.RoleSales))
	token := f.tokenFor(user)

	router := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequirePermission(permissions.ModuleProduction, "todaysIndents", permissions.ActionView),
	)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionViewWithoutEdit(t *testing.T) {
	// 默认单位经理可看审批队列但不能审批
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleUnitManager, true, permissions.DefaultMatrix(permissions.RoleUnitManager))
	token := f.tokenFor(user)

	viewRouter := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequirePermission(permissions.ModuleUnitManager, "salesApproval", permissions.ActionView),
	)
	assert.Equal(t, http.StatusOK, doRequest(viewRouter, token).Code)

	editRouter := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequirePermission(permissions.ModuleUnitManager, "salesApproval", permissions.ActionEdit),
	)
	assert.Equal(t, http.StatusForbidden, doRequest(editRouter, token).Code)
}

func TestRequirePermissionSuperAdminBypass(t *testing.T) {
	// 超级管理员矩阵全false仍然放行：旁路在矩阵之前判断
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSuperAdmin, true, permissions.DefaultMatrix(permissions.RoleSuperAdmin))
	token := f.tokenFor(user)

	router := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequirePermission(permissions.ModuleAccounts, "ledger", permissions.ActionDelete),
	)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionFreshMatrix(t *testing.T) {
	// 每次请求现查矩阵，权限编辑即时生效
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleUnitManager, true, permissions.DefaultMatrix(permissions.RoleUnitManager))
	token := f.tokenFor(user)

	router := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequirePermission(permissions.ModuleUnitManager, "salesApproval", permissions.ActionEdit),
	)
	assert.Equal(t, http.StatusForbidden, doRequest(router, token).Code)

	// 管理员授予审批权后，同一令牌立即可用
	granted := permissions.DefaultMatrix(permissions.RoleUnitManager)
	granted[permissions.ModuleUnitManager]["salesApproval"] = permissions.ActionSet{View: true, Edit: true}
	user.SetMatrix(granted)

	assert.Equal(t, http.StatusOK, doRequest(router, token).Code)
}

// ========== RequireModule / RequireSuperAdmin ==========

func TestRequireModule(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser(1, permissions.RoleSales, true, permissions.DefaultMatrix(permissions.RoleSales))
	token := f.tokenFor(user)

	// 销售默认可维护客户
	okRouter := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequireModule(permissions.ModuleCustomers, permissions.ActionAdd),
	)
	assert.Equal(t, http.StatusOK, doRequest(okRouter, token).Code)

	// 但没有库存模块
	denyRouter := protectedRouter(
		f.auth.RequireLogin(),
		f.auth.RequireModule(permissions.ModuleInventory, permissions.ActionView),
	)
	assert.Equal(t, http.StatusForbidden, doRequest(denyRouter, token).Code)
}

func TestRequireSuperAdmin(t *testing.T) {
	f := newAuthFixture()
	admin := f.addUser(1, permissions.RoleSuperAdmin, true, nil)
	sales := f.addUser(2, permissions.RoleSales, true, permissions.DefaultMatrix(permissions.RoleSales))

	router := protectedRouter(f.auth.RequireLogin(), f.auth.RequireSuperAdmin())

	assert.Equal(t, http.StatusOK, doRequest(router, f.tokenFor(admin)).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, f.tokenFor(sales)).Code)
}
