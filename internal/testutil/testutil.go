package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hugh/ritum/internal/auth"
	"github.com/hugh/ritum/internal/database"
	"github.com/hugh/ritum/internal/database/models"
)

// TestPassword is the plaintext password of every user made by CreateTestUser.
const TestPassword = "password123"

const testSecret = "test-secret-key-for-testing-0123456789"

var (
	hashOnce sync.Once
	hashed   string
)

// testPasswordHash computes the bcrypt hash once per test binary.
func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := auth.HashPassword(TestPassword)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		hashed = h
	})
	return hashed
}

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Every pooled connection to :memory: would be a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// CreateTestUser creates a lawyer account with TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: testPasswordHash(t),
		Name:         "Test User",
		OABNumber:    "123456",
		OABState:     "SP",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService(testSecret, 30*time.Minute, 7*24*time.Hour)
}

// GenerateTestToken generates a valid access token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateAccessToken(user.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// FormRequest creates a urlencoded POST, as sent by OAuth2 password clients.
func FormRequest(t *testing.T, path string, form url.Values) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func CreateTestClient(t *testing.T, db *gorm.DB, ownerID uuid.UUID, fullName string) *models.Client {
	t.Helper()

	client := &models.Client{
		OwnerID:     ownerID,
		FullName:    fullName,
		Email:       strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "@example.com",
		Phone:       "11999990000",
		Nationality: "brasileira",
	}

	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}

	return client
}

func CreateTestProcess(t *testing.T, db *gorm.DB, ownerID uuid.UUID, number string) *models.Process {
	t.Helper()

	process := &models.Process{
		Number:     number,
		ClientName: "Cliente Teste",
		Type:       "Cível",
		Status:     models.ProcessStatusActive,
		OwnerID:    ownerID,
	}

	if err := db.Create(process).Error; err != nil {
		t.Fatalf("failed to create test process: %v", err)
	}

	return process
}

func CreateTestColumn(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string, position int) *models.TaskColumn {
	t.Helper()

	column := &models.TaskColumn{
		Title:    title,
		Position: position,
		OwnerID:  ownerID,
	}

	if err := db.Create(column).Error; err != nil {
		t.Fatalf("failed to create test column: %v", err)
	}

	return column
}

func CreateTestCard(t *testing.T, db *gorm.DB, columnID uint, title string) *models.TaskCard {
	t.Helper()

	card := &models.TaskCard{
		Title:    title,
		ColumnID: columnID,
	}

	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}

	return card
}

func CreateTestJurisprudence(t *testing.T, db *gorm.DB, court, caseNumber, summary string, published time.Time) *models.JurisprudenceDocument {
	t.Helper()

	doc := &models.JurisprudenceDocument{
		Court:           court,
		CaseNumber:      caseNumber,
		PublicationDate: published,
		Summary:         summary,
		FullText:        summary,
	}

	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create test jurisprudence document: %v", err)
	}

	return doc
}

func CreateTestIntimation(t *testing.T, db *gorm.DB, ownerID uuid.UUID, processNumber string, published time.Time) *models.Intimation {
	t.Helper()

	intimation := &models.Intimation{
		OwnerID:         ownerID,
		PublicationDate: published,
		ProcessNumber:   processNumber,
		Content:         "Fica a parte intimada para se manifestar no prazo de 15 dias.",
	}

	if err := db.Create(intimation).Error; err != nil {
		t.Fatalf("failed to create test intimation: %v", err)
	}

	return intimation
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB          *gorm.DB
	JWTService  *auth.JWTService
	AuthService *auth.Service
	User        *models.User
	Token       string
}

// NewTestContext creates a complete test setup with DB, user, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:          db,
		JWTService:  jwtService,
		AuthService: auth.NewService(db, jwtService),
		User:        user,
		Token:       token,
	}
}

// OtherUser creates a second account in the same database, returning it
// with a valid access token.
func (ts *TestSetup) OtherUser(t *testing.T) (*models.User, string) {
	t.Helper()
	user := CreateTestUser(t, ts.DB)
	return user, GenerateTestToken(t, ts.JWTService, user)
}
