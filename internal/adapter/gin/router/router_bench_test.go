package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"user-auth-service/internal/adapter/db/dbtest"
	"user-auth-service/internal/adapter/db/gormdb"
	"user-auth-service/internal/adapter/events"
	"user-auth-service/internal/adapter/gin/handler"
	"user-auth-service/internal/adapter/gin/middleware"
	"user-auth-service/internal/adapter/gin/pipeline"
	"user-auth-service/internal/adapter/gin/response"
	"user-auth-service/internal/usecase/user"
	"user-auth-service/pkg/security"
	"user-auth-service/pkg/validation"
)

func setupBenchmarkRouter(b *testing.B) *gin.Engine {
	b.Helper()
	gin.SetMode(gin.ReleaseMode)
	log := zap.NewNop()

	repo := gormdb.NewUserRepo(dbtest.NewSQLite(b), log)
	tokens := security.NewTokenService(testSecret, time.Hour)
	uc := user.New(repo, security.NewBcryptHasher(bcrypt.MinCost), tokens, events.NopPublisher{}, log)
	p := pipeline.New(validation.New(), middleware.NewAuthenticator(tokens, log), response.NewResponder(log), log)
	return SetupRouter(p, handler.NewAuthHandler(uc, log), handler.NewUserHandler(uc, log), nil, repo, log)
}

func serve(b *testing.B, engine *gin.Engine, method, path, body string) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		b.Fatalf("%s %s: status %d: %s", method, path, w.Code, w.Body.String())
	}
}

func BenchmarkCreateUser(b *testing.B) {
	engine := setupBenchmarkRouter(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serve(b, engine, http.MethodPost, "/user",
			fmt.Sprintf(`{"name":"Bench","email":"bench%d@x.com","password":"secret1"}`, i))
	}
}

func BenchmarkGetUser(b *testing.B) {
	engine := setupBenchmarkRouter(b)
	serve(b, engine, http.MethodPost, "/user", `{"name":"Bench","email":"bench@x.com","password":"secret1"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serve(b, engine, http.MethodGet, "/user/1", "")
	}
}

func BenchmarkListUsers(b *testing.B) {
	engine := setupBenchmarkRouter(b)
	for i := 0; i < 25; i++ {
		serve(b, engine, http.MethodPost, "/user",
			fmt.Sprintf(`{"name":"Bench","email":"bench%d@x.com","password":"secret1"}`, i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serve(b, engine, http.MethodGet, "/user?page=2", "")
	}
}
