package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"fitness-portal/internal/chat"
	"fitness-portal/internal/controllers"
	"fitness-portal/internal/dto"
	"fitness-portal/internal/integrations/gymapi"
	"fitness-portal/internal/repositories"
	"fitness-portal/internal/services"
	"fitness-portal/internal/web"
	"fitness-portal/pkg/config"
	"fitness-portal/pkg/customvalidator"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/eventbus"
	"fitness-portal/pkg/filestorage"
	"fitness-portal/pkg/middleware"
	"fitness-portal/pkg/service"
	"fitness-portal/pkg/utils"
	appwebsocket "fitness-portal/pkg/websocket"
)

const membersJSON = `{"status":true,"body":{"list":[
	{"id":1,"fullName":"Nguyễn Văn An","email":"an@fitzone.vn","phoneNumber":"0901234567","isActive":true},
	{"id":2,"fullName":"Trần Thị Bình","email":"binh@fitzone.vn","phoneNumber":"0912345678","isActive":false}
]}}`

// RouterTestSuite поднимает весь роутер поверх фейкового REST API.
type RouterTestSuite struct {
	suite.Suite
	Echo     *echo.Echo
	JWT      service.JWTService
	Sessions services.SessionServiceInterface
	Chats    *chat.Registry
	cancel   context.CancelFunc

	mu        sync.Mutex
	upstream  map[string]upstreamReply
	upstreamN int
	server    *httptest.Server
}

type upstreamReply struct {
	status int
	body   string
}

func (s *RouterTestSuite) SetupTest() {
	s.upstream = map[string]upstreamReply{}
	s.upstreamN = 0

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.upstreamN++
		reply, ok := s.upstream[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.status)
		_, _ = io.WriteString(w, reply.body)
	}))
	s.T().Cleanup(api.Close)

	operatorHash, err := utils.HashPassword("secret123")
	s.Require().NoError(err)

	cfg := &config.Config{
		Server: config.ServerConfig{UploadDir: s.T().TempDir(), PublicBaseURL: "http://localhost:8080"},
		JWT:    config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: time.Hour},
		Auth: config.AuthConfig{
			MaxLoginAttempts: 3,
			LockoutDuration:  time.Minute,
			OperatorAccounts: []config.OperatorAccount{{Username: "admin", PasswordHash: operatorHash, Role: "Admin"}},
		},
	}

	e := echo.New()
	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)
	renderer, err := web.NewRenderer()
	s.Require().NoError(err)
	e.Renderer = renderer
	e.HTTPErrorHandler = controllers.HTTPErrorHandler(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	nop := zap.NewNop()
	bus := eventbus.New(nop)
	hub := appwebsocket.NewHub(nop)
	go hub.Run(ctx)
	chats := chat.NewRegistry(time.Hour, time.Hour, nil, nop)
	cache := repositories.NewMemoryCacheRepository()
	storage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadDir)
	s.Require().NoError(err)

	s.JWT = service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	s.Sessions = services.NewSessionService(cache, bus, time.Hour, nop)

	InitRouter(e, Deps{
		Config:   cfg,
		API:      gymapi.New(api.URL, 5*time.Second, nop),
		Cache:    cache,
		Audit:    services.NoopAuditService{},
		Bus:      bus,
		Hub:      hub,
		Chats:    chats,
		JWT:      s.JWT,
		Sessions: s.Sessions,
		Storage:  storage,
		Loggers:  &Loggers{Main: nop, Auth: nop, Resource: nop, Chat: nop},
	})
	s.Echo = e
	s.Chats = chats
	s.server = nil
}

func (s *RouterTestSuite) TearDownTest() {
	s.cancel()
}

func (s *RouterTestSuite) on(method, path, body string) {
	s.onStatus(method, path, http.StatusOK, body)
}

func (s *RouterTestSuite) onStatus(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upstream[method+" "+path] = upstreamReply{status: status, body: body}
}

// serve поднимает роутер на реальном порту (нужно для WebSocket).
func (s *RouterTestSuite) serve() string {
	if s.server == nil {
		s.server = httptest.NewServer(s.Echo)
		s.T().Cleanup(s.server.Close)
	}
	return s.server.URL
}

func (s *RouterTestSuite) upstreamCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upstreamN
}

// login создает сессию напрямую и возвращает cookie для запросов.
func (s *RouterTestSuite) login(role string) *http.Cookie {
	session, err := s.Sessions.Create(context.Background(), dto.SessionDTO{
		UserID: "42", Username: "user", FullName: "Lê Minh", RoleName: role, Token: "upstream-token",
	})
	s.Require().NoError(err)
	token, err := s.JWT.GenerateToken(session.ID, role)
	s.Require().NoError(err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func (s *RouterTestSuite) do(method, target string, body io.Reader, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decode(rec *httptest.ResponseRecorder) utils.HTTPResponse {
	var resp utils.HTTPResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}

func (s *RouterTestSuite) TestHomePage() {
	rec := s.do(http.MethodGet, "/", nil, "", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "FitZone")
	s.Contains(rec.Body.String(), `href="/login"`)
}

func (s *RouterTestSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", nil, "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestUnknownPageRendersErrorPage() {
	rec := s.do(http.MethodGet, "/khong-ton-tai", nil, "", nil)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "Không tìm thấy trang")
}

func (s *RouterTestSuite) TestBackOfficeRedirectsGuestToLogin() {
	rec := s.do(http.MethodGet, "/admin/members", nil, "", nil)

	s.Equal(http.StatusSeeOther, rec.Code)
	s.Equal("/login?next="+url.QueryEscape("/admin/members"), rec.Header().Get(echo.HeaderLocation))
	s.Zero(s.upstreamCalls())
}

func (s *RouterTestSuite) TestAPIRequiresSession() {
	rec := s.do(http.MethodGet, "/api/members", nil, "", nil)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(decode(rec).Status)
}

func (s *RouterTestSuite) TestOperatorLoginThroughAPI() {
	rec := s.do(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"secret123"}`), echo.MIMEApplicationJSON, nil)

	s.Require().Equal(http.StatusOK, rec.Code)
	s.True(decode(rec).Status)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	s.Require().NotNil(cookie)

	me := s.do(http.MethodGet, "/api/me", nil, "", cookie)
	s.Equal(http.StatusOK, me.Code)
	s.Contains(me.Body.String(), `"roleName":"Admin"`)
	s.Zero(s.upstreamCalls())
}

func (s *RouterTestSuite) TestWrongPasswordIsRejected() {
	rec := s.do(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"sai-mat-khau"}`), echo.MIMEApplicationJSON, nil)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Tên đăng nhập hoặc mật khẩu không đúng", decode(rec).Message)
}

func (s *RouterTestSuite) TestMemberListAsJSON() {
	s.on(http.MethodGet, "/Member", membersJSON)

	rec := s.do(http.MethodGet, "/api/members?search=bình", nil, "", s.login("Manager"))

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Trần Thị Bình")
	s.NotContains(rec.Body.String(), "Nguyễn Văn An")
	s.Contains(rec.Body.String(), `"total_count":1`)
}

func (s *RouterTestSuite) TestMemberListPage() {
	s.on(http.MethodGet, "/Member", membersJSON)

	rec := s.do(http.MethodGet, "/admin/members", nil, "", s.login("Admin"))

	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "Nguyễn Văn An")
	s.Contains(body, "/admin/members/new")
	s.Contains(body, "/admin/members/1/delete")
}

func (s *RouterTestSuite) TestRoleCannotEnterAnotherRolesSection() {
	rec := s.do(http.MethodGet, "/admin/members", nil, "", s.login("Staff"))

	s.Equal(http.StatusSeeOther, rec.Code)
	s.Equal("/", rec.Header().Get(echo.HeaderLocation))
}

func (s *RouterTestSuite) TestMemberRoleHasNoBackOfficeAPI() {
	rec := s.do(http.MethodGet, "/api/members", nil, "", s.login("Member"))

	s.Equal(http.StatusForbidden, rec.Code)
	s.Zero(s.upstreamCalls())
}

func (s *RouterTestSuite) TestHiddenResourceLooksMissing() {
	rec := s.do(http.MethodGet, "/api/vouchers", nil, "", s.login("Staff"))

	s.Equal(http.StatusNotFound, rec.Code)
	s.Zero(s.upstreamCalls())
}

func (s *RouterTestSuite) TestStaffCannotDeleteMembers() {
	rec := s.do(http.MethodDelete, "/api/members/1?confirm=yes", nil, "", s.login("Staff"))

	s.Equal(http.StatusForbidden, rec.Code)
	s.Zero(s.upstreamCalls())
}

func (s *RouterTestSuite) TestDeleteWithoutConfirmation() {
	rec := s.do(http.MethodDelete, "/api/members/1", nil, "", s.login("Admin"))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Zero(s.upstreamCalls())
}

func (s *RouterTestSuite) TestInvalidFormRerendersWithErrors() {
	form := url.Values{"fullName": {"  "}, "email": {"khong-phai-email"}, "phoneNumber": {"123"}}

	rec := s.do(http.MethodPost, "/admin/members", strings.NewReader(form.Encode()), echo.MIMEApplicationForm, s.login("Admin"))

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(rec.Body.String(), "field-error")
	s.Contains(rec.Body.String(), `value="khong-phai-email"`)
	s.Zero(s.upstreamCalls())
}

func (s *RouterTestSuite) TestCreateRedirectsBackToList() {
	s.on(http.MethodPost, "/Member", `{"id":7,"fullName":"Phạm Cường","email":"cuong@fitzone.vn","phoneNumber":"0987654321"}`)
	form := url.Values{"fullName": {"Phạm Cường"}, "email": {"cuong@fitzone.vn"}, "phoneNumber": {"0987654321"}, "isActive": {"true", "false"}}

	rec := s.do(http.MethodPost, "/manager/members", strings.NewReader(form.Encode()), echo.MIMEApplicationForm, s.login("Manager"))

	s.Equal(http.StatusSeeOther, rec.Code)
	s.Equal("/manager/members", rec.Header().Get(echo.HeaderLocation))
}

func (s *RouterTestSuite) TestAuditDisabledWithoutDatabase() {
	rec := s.do(http.MethodGet, "/admin/audit", nil, "", s.login("Admin"))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Nhật ký chưa được bật")
}

func (s *RouterTestSuite) TestGuestChatGetsCookie() {
	rec := s.do(http.MethodPost, "/api/chat/messages", strings.NewReader(`{"text":"Xin chào"}`), echo.MIMEApplicationJSON, nil)

	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"sender":"user"`)

	var found bool
	for _, c := range rec.Result().Cookies() {
		found = found || c.Name == "chat_id"
	}
	s.True(found)
}

func (s *RouterTestSuite) TestEmptyChatMessageRejected() {
	rec := s.do(http.MethodPost, "/api/chat/messages", strings.NewReader(`{"text":"   "}`), echo.MIMEApplicationJSON, nil)

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *RouterTestSuite) TestStaticAssets() {
	rec := s.do(http.MethodGet, "/static/app.js", nil, "", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "WebSocket")
}

func sessionIDFromCookie(s *RouterTestSuite, cookie *http.Cookie) string {
	claims, err := s.JWT.ValidateToken(cookie.Value)
	s.Require().NoError(err)
	return claims.SessionID
}

func clearedSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func (s *RouterTestSuite) TestUpstreamUnauthorizedEndsSessionOnPage() {
	s.onStatus(http.MethodGet, "/Member", http.StatusUnauthorized, `{"message":"Token expired"}`)
	cookie := s.login("Manager")
	sid := sessionIDFromCookie(s, cookie)

	rec := s.do(http.MethodGet, "/manager/members", nil, "", cookie)

	s.Equal(http.StatusSeeOther, rec.Code)
	s.True(strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "/login?"), rec.Header().Get(echo.HeaderLocation))
	s.True(clearedSessionCookie(rec))
	_, err := s.Sessions.Get(context.Background(), sid)
	s.ErrorIs(err, apperrors.ErrSessionNotFound)
}

func (s *RouterTestSuite) TestUpstreamUnauthorizedEndsSessionOnAPI() {
	s.onStatus(http.MethodGet, "/Member", http.StatusUnauthorized, `{"message":"Token expired"}`)
	cookie := s.login("Manager")
	sid := sessionIDFromCookie(s, cookie)

	rec := s.do(http.MethodGet, "/api/members", nil, "", cookie)

	s.Equal(http.StatusUnauthorized, rec.Code)
	resp := decode(rec)
	s.False(resp.Status)
	s.NotEmpty(resp.Message)
	s.True(clearedSessionCookie(rec))
	_, err := s.Sessions.Get(context.Background(), sid)
	s.ErrorIs(err, apperrors.ErrSessionNotFound)
}

func (s *RouterTestSuite) TestGuestChatSocketKeepsConversation() {
	wsURL := "ws" + strings.TrimPrefix(s.serve(), "http") + "/chat/ws"

	first, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	_, _, err = first.ReadMessage()
	s.Require().NoError(err)
	first.Close()

	var guest *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "chat_id" {
			guest = c
		}
	}
	s.Require().NotNil(guest, "101 без cookie chat_id")

	header := http.Header{}
	header.Set("Cookie", guest.String())
	second, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	s.Require().NoError(err)
	defer second.Close()
	_, history, err := second.ReadMessage()
	s.Require().NoError(err)
	s.Contains(string(history), string(appwebsocket.TypeChatHistory))

	for _, c := range resp.Cookies() {
		s.NotEqual("chat_id", c.Name)
	}
	s.Equal(1, s.Chats.Len())
}

func (s *RouterTestSuite) TestExportSendsWorkbook() {
	s.on(http.MethodGet, "/Member", membersJSON)

	rec := s.do(http.MethodGet, "/admin/members/export.xlsx", nil, "", s.login("Admin"))

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(services.XLSXContentType, rec.Header().Get(echo.HeaderContentType))
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "members.xlsx")
	s.True(strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
