package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	authrepository "github.com/introaqua/waterworks/internal/auth/repository"
	authservice "github.com/introaqua/waterworks/internal/auth/service"
	"github.com/introaqua/waterworks/internal/auth/session"
	billdomain "github.com/introaqua/waterworks/internal/bill/domain"
	billrepository "github.com/introaqua/waterworks/internal/bill/repository"
	billservice "github.com/introaqua/waterworks/internal/bill/service"
	"github.com/introaqua/waterworks/internal/config"
	newsdomain "github.com/introaqua/waterworks/internal/news/domain"
	newsrepository "github.com/introaqua/waterworks/internal/news/repository"
	newsservice "github.com/introaqua/waterworks/internal/news/service"
	paymentdomain "github.com/introaqua/waterworks/internal/payment/domain"
	paymentrepository "github.com/introaqua/waterworks/internal/payment/repository"
	paymentservice "github.com/introaqua/waterworks/internal/payment/service"
	pricingdomain "github.com/introaqua/waterworks/internal/pricing/domain"
	pricingrepository "github.com/introaqua/waterworks/internal/pricing/repository"
	pricingservice "github.com/introaqua/waterworks/internal/pricing/service"
	"github.com/introaqua/waterworks/internal/ratelimit"
	reportdomain "github.com/introaqua/waterworks/internal/report/domain"
	reportrepository "github.com/introaqua/waterworks/internal/report/repository"
	reportservice "github.com/introaqua/waterworks/internal/report/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	srv *Server
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&billdomain.Bill{},
		&reportdomain.Report{},
		&newsdomain.Article{},
		&pricingdomain.Tier{},
		&paymentdomain.Order{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	cfg := config.Config{
		UploadDir:      t.TempDir(),
		PaymentBaseURL: "https://pay.example.com/pay",
		QRServiceURL:   "https://qr.example.com/create",
	}

	authRepo, sessionRepo := authrepository.New(conn)
	authSvc := authservice.New(authservice.Params{
		Log:         log,
		GenID:       node,
		Repo:        authRepo,
		SessionRepo: sessionRepo,
	})
	billSvc := billservice.New(billservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  billrepository.Provide(),
	})
	reportSvc := reportservice.New(reportservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  reportrepository.Provide(),
		Users: authRepo,
	})
	newsSvc := newsservice.New(newsservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  newsrepository.Provide(),
	})
	pricingSvc := pricingservice.New(pricingservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  pricingrepository.Provide(),
	})
	paymentSvc := paymentservice.New(paymentservice.Params{
		Cfg:   cfg,
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  paymentrepository.Provide(),
	})
	public := ratelimit.NewPublicLimiter(ratelimit.Params{Cfg: cfg, Log: log}, nil)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:        engine,
		Cfg:        cfg,
		Log:        log,
		Authsvc:    authSvc,
		Sessions:   session.NewManager(cfg),
		BillSvc:    billSvc,
		ReportSvc:  reportSvc,
		NewsSvc:    newsSvc,
		PricingSvc: pricingSvc,
		PaymentSvc: paymentSvc,
		Public:     public,
	})

	return &testServer{srv: srv, db: conn}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(w, req)
	return w
}

func (ts *testServer) register(t *testing.T, username, phone string) {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "water123",
		"full_name": "Nguyen Van A",
		"phone":     phone,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (ts *testServer) login(t *testing.T, username string) *http.Cookie {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": username,
		"password": "water123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.DefaultCookieName {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func (ts *testServer) promote(t *testing.T, username string, role authdomain.Role) {
	t.Helper()
	require.NoError(t, ts.db.Model(&authdomain.User{}).
		Where("username = ?", username).
		Update("role", role).Error)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestRegisterLoginMe(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	cookie := ts.login(t, "nguyenvana")

	w := ts.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "nguyenvana", data["username"])
	assert.Equal(t, "customer", data["role"])
	assert.Regexp(t, `^CUST\d{8}$`, data["customer_code"])
}

func TestAuthRequired_MissingCookie(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp.Error.Type)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	cookie := ts.login(t, "nguyenvana")

	w := ts.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateReport_UsesSessionCustomer(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	cookie := ts.login(t, "nguyenvana")

	w := ts.do(t, http.MethodPost, "/api/reports", gin.H{
		"report_type": "water_leak",
		"title":       "Leaking pipe on main street",
		"description": "Water has been leaking for two days near the intersection.",
		"location":    gin.H{"address": "12 Nguyen Trai"},
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Regexp(t, `^RPT\d{10}$`, data["report_number"])
	assert.Equal(t, "submitted", data["status"])
	assert.Regexp(t, `^CUST\d{8}$`, data["customer_code"])

	info, ok := data["customer_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Nguyen Van A", info["full_name"])
}

func TestReportStatusUpdate_RequiresStaff(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	cookie := ts.login(t, "nguyenvana")

	w := ts.do(t, http.MethodPut, "/api/reports/123/status", gin.H{
		"status": "under_review",
	}, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportWorkflowByStaff(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	customerCookie := ts.login(t, "nguyenvana")

	w := ts.do(t, http.MethodPost, "/api/reports", gin.H{
		"report_type": "water_leak",
		"priority":    "urgent",
		"title":       "Burst pipe flooding the street",
		"description": "A main pipe burst and water is flooding the intersection.",
		"location":    gin.H{"address": "5 Tran Hung Dao"},
	}, customerCookie)
	require.Equal(t, http.StatusCreated, w.Code)
	reportID := decodeData(t, w)["id"].(string)

	ts.register(t, "staffuser", "0905555555")
	ts.promote(t, "staffuser", authdomain.RoleStaff)
	staffCookie := ts.login(t, "staffuser")

	ts.register(t, "adminuser", "0909999999")
	ts.promote(t, "adminuser", authdomain.RoleAdmin)
	adminCookie := ts.login(t, "adminuser")

	// Assignment is admin-only and the assignee must be able to work
	// reports.
	w = ts.do(t, http.MethodPut, "/api/reports/"+reportID+"/assign", gin.H{
		"assigned_to": "123",
	}, staffCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var staff authdomain.User
	require.NoError(t, ts.db.Where("username = ?", "staffuser").First(&staff).Error)
	w = ts.do(t, http.MethodPut, "/api/reports/"+reportID+"/assign", gin.H{
		"assigned_to": staff.ID.String(),
	}, adminCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPut, "/api/reports/"+reportID+"/status", gin.H{
		"status": "in_progress",
		"note":   "Crew dispatched",
	}, staffCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Closing straight from in_progress is not a legal transition.
	w = ts.do(t, http.MethodPut, "/api/reports/"+reportID+"/status", gin.H{
		"status": "closed",
	}, staffCookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPut, "/api/reports/"+reportID+"/resolution", gin.H{
		"description": "Replaced the cracked section of pipe",
		"actions":     []string{"excavation", "pipe replacement"},
		"cost":        1500000,
	}, staffCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "resolved", decodeData(t, w)["status"])

	w = ts.do(t, http.MethodGet, "/api/reports/stats/summary", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeData(t, w)
	assert.Equal(t, float64(1), stats["total_reports"])
	assert.Equal(t, float64(1), stats["resolved_reports"])
}

func TestCustomerCannotReadOthersReport(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	ownerCookie := ts.login(t, "nguyenvana")

	w := ts.do(t, http.MethodPost, "/api/reports", gin.H{
		"report_type": "no_water",
		"title":       "No water since morning",
		"description": "The whole block has had no running water since 6am.",
		"location":    gin.H{"address": "34 Le Loi"},
	}, ownerCookie)
	require.Equal(t, http.StatusCreated, w.Code)
	reportID := decodeData(t, w)["id"].(string)

	ts.register(t, "tranvanb", "0907654321")
	otherCookie := ts.login(t, "tranvanb")

	w = ts.do(t, http.MethodGet, "/api/reports/"+reportID, nil, otherCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/reports/"+reportID, nil, ownerCookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBillLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	customerCookie := ts.login(t, "nguyenvana")

	meResp := ts.do(t, http.MethodGet, "/api/auth/me", nil, customerCookie)
	customerCode := decodeData(t, meResp)["customer_code"].(string)

	ts.register(t, "adminuser", "0909999999")
	ts.promote(t, "adminuser", authdomain.RoleAdmin)
	adminCookie := ts.login(t, "adminuser")

	w := ts.do(t, http.MethodPost, "/api/bills", gin.H{
		"customer_code": customerCode,
		"period_from":   "2026-01-01T00:00:00Z",
		"period_to":     "2026-01-31T00:00:00Z",
		"water_usage":   gin.H{"previous_reading": 100, "current_reading": 150},
		"due_date":      "2026-02-15T00:00:00Z",
	}, adminCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	billID := data["id"].(string)
	assert.Regexp(t, `^BILL\d{10}$`, data["bill_number"])

	// The customer sees their own bill but cannot create one.
	w = ts.do(t, http.MethodGet, "/api/bills/"+billID, nil, customerCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/bills", gin.H{}, customerCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPut, "/api/bills/"+billID+"/status", gin.H{
		"status":       "paid",
		"payment_info": gin.H{"method": "bank_transfer", "transaction_id": "TX1"},
	}, adminCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", decodeData(t, w)["status"])

	w = ts.do(t, http.MethodGet, "/api/bills/stats/summary", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPublicBillLookup(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")

	w := ts.do(t, http.MethodGet, "/api/bills/lookup?identifier=0901234567", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	customer, ok := data["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Nguyen Van A", customer["full_name"])
	assert.Nil(t, data["bill"])

	// The customer code path resolves the same account.
	code := customer["customer_code"].(string)
	w = ts.do(t, http.MethodGet, "/api/bills/lookup?identifier="+code, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/bills/lookup?identifier=CUST00000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/bills/lookup", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewsPublicAndAdminFlows(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "adminuser", "0909999999")
	ts.promote(t, "adminuser", authdomain.RoleAdmin)
	adminCookie := ts.login(t, "adminuser")

	w := ts.do(t, http.MethodPost, "/api/news", gin.H{
		"title":    "Scheduled maintenance downtown",
		"summary":  "Water supply will be interrupted on Saturday morning.",
		"content":  "Crews will replace a main valve between 6am and noon.",
		"category": "maintenance",
		"status":   "published",
	}, adminCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	slug := data["slug"].(string)
	articleID := data["id"].(string)
	assert.Equal(t, "scheduled-maintenance-downtown", slug)

	w = ts.do(t, http.MethodGet, "/api/news/"+slug, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeData(t, w)["view_count"])

	w = ts.do(t, http.MethodPost, "/api/news/"+articleID+"/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeData(t, w)["like_count"])

	// Drafts never reach the public listing.
	w = ts.do(t, http.MethodPost, "/api/news", gin.H{
		"title":    "Unpublished draft article",
		"summary":  "This draft should stay invisible to the public.",
		"content":  "Draft body.",
		"category": "announcement",
	}, adminCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/news", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data struct {
			News []map[string]any `json:"news"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data.News, 1)

	w = ts.do(t, http.MethodGet, "/api/news/admin/all", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data.News, 2)
}

func TestPricingPublicListAndAdminCreate(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "adminuser", "0909999999")
	ts.promote(t, "adminuser", authdomain.RoleAdmin)
	adminCookie := ts.login(t, "adminuser")

	w := ts.do(t, http.MethodPost, "/api/pricing", gin.H{
		"code":  "family",
		"name":  "Gia đình",
		"price": 65000,
		"unit":  "m³",
	}, adminCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	inactive := false
	w = ts.do(t, http.MethodPost, "/api/pricing", gin.H{
		"code":      "legacy",
		"name":      "Legacy tier",
		"price":     1000,
		"is_active": inactive,
	}, adminCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/pricing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, "family", listResp.Data[0]["code"])

	w = ts.do(t, http.MethodPost, "/api/pricing", gin.H{"code": "x", "name": "y"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePaymentQR(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "nguyenvana", "0901234567")
	cookie := ts.login(t, "nguyenvana")

	w := ts.do(t, http.MethodPost, "/api/payment/create-qr", gin.H{
		"items": []gin.H{{"name": "Water filter", "quantity": 1, "price": 250000}},
		"total": 250000,
		"shipping": gin.H{
			"full_name":    "Nguyen Van A",
			"phone":        "0901234567",
			"address_line": "12 Nguyen Trai",
		},
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	orderCode := data["order_id"].(string)
	assert.Regexp(t, `^ORDER-\d+-[A-Z0-9]{8}$`, orderCode)
	assert.Contains(t, data["payment_url"], "orderId="+orderCode)
	assert.Contains(t, data["qr_code"], "size=300x300")

	w = ts.do(t, http.MethodGet, "/api/payment/check/"+orderCode, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", decodeData(t, w)["status"])
}
