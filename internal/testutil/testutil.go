package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/middleware"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

const JWTSecret = "tailoring-test-jwt-secret"

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens an isolated throwaway database and migrates the
// schema. A file under t.TempDir() rather than :memory: so that every
// pooled connection sees the same database; services read through the
// pool while holding a transaction.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Fabric{},
		&entity.Accessory{},
		&entity.InventoryLog{},
		&entity.GarmentType{},
		&entity.GarmentTypeAccessory{},
		&entity.Order{},
		&entity.OrderAccessory{},
		&entity.TailoringTask{},
		&entity.TailorCommission{},
		&entity.Payment{},
		&entity.Rework{},
		&entity.ReworkMaterial{},
		&entity.Notification{},
		&entity.SMSLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  userID,
		"name": name,
		"role": role,
		"iss":  "tailoring-test",
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// AdminToken returns a token for the default admin test user
func AdminToken() string {
	return GenerateTestToken("test-admin-001", "Test Admin", entity.RoleAdmin)
}

// TailorToken returns a token for a tailor test user
func TailorToken(id string) string {
	return GenerateTestToken(id, "Test Tailor", entity.RoleTailor)
}

// AdminActor returns a service principal for the default admin test user
func AdminActor() service.Actor {
	return service.Actor{ID: "test-admin-001", Name: "Test Admin", Role: entity.RoleAdmin}
}

// TailorActor returns a service principal for a tailor test user
func TailorActor(id string) service.Actor {
	return service.Actor{ID: id, Name: "Test Tailor", Role: entity.RoleTailor}
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedAdmin creates the default admin test user
func SeedAdmin(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	return SeedUser(t, db, "test-admin-001", "Test Admin", entity.RoleAdmin)
}

// SeedTailor creates a tailor test user
func SeedTailor(t *testing.T, db *gorm.DB, id, name string) *entity.User {
	t.Helper()
	return SeedUser(t, db, id, name, entity.RoleTailor)
}

// SeedUser creates a test user in the database
func SeedUser(t *testing.T, db *gorm.DB, id, name, role string) *entity.User {
	t.Helper()
	hash, _ := service.HashPassword("password123")
	user := &entity.User{
		ID:           id,
		Username:     "user_" + id,
		PasswordHash: hash,
		Name:         name,
		Phone:        "09171234567",
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return user
}

// SeedCustomer creates a test customer
func SeedCustomer(t *testing.T, db *gorm.DB, id, name string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{
		ID:            id,
		Name:          name,
		ContactNumber: "0917 555 0101",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("Failed to seed test customer: %v", err)
	}
	return customer
}

// SeedFabric creates a test fabric with the given stock level
func SeedFabric(t *testing.T, db *gorm.DB, id, name string, stock float64) *entity.Fabric {
	t.Helper()
	fabric := &entity.Fabric{
		ID:            id,
		Name:          name,
		Color:         "navy",
		StockMeters:   decimal.NewFromFloat(stock),
		PricePerMeter: decimal.NewFromInt(150),
		ReorderLevel:  decimal.NewFromInt(5),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(fabric).Error; err != nil {
		t.Fatalf("Failed to seed test fabric: %v", err)
	}
	return fabric
}

// SeedAccessory creates a test accessory with the given stock level
func SeedAccessory(t *testing.T, db *gorm.DB, id, name string, stock float64) *entity.Accessory {
	t.Helper()
	accessory := &entity.Accessory{
		ID:            id,
		Name:          name,
		Unit:          "pcs",
		StockQuantity: decimal.NewFromFloat(stock),
		ReorderLevel:  decimal.NewFromInt(10),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(accessory).Error; err != nil {
		t.Fatalf("Failed to seed test accessory: %v", err)
	}
	return accessory
}

// SeedGarmentType creates a test garment type
func SeedGarmentType(t *testing.T, db *gorm.DB, id, name string, fabricMeters float64, basePrice float64) *entity.GarmentType {
	t.Helper()
	garment := &entity.GarmentType{
		ID:                    id,
		Name:                  name,
		EstimatedFabricMeters: decimal.NewFromFloat(fabricMeters),
		BasePrice:             decimal.NewFromFloat(basePrice),
		Active:                true,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
	if err := db.Create(garment).Error; err != nil {
		t.Fatalf("Failed to seed test garment type: %v", err)
	}
	return garment
}
