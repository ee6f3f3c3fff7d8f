package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/repo/memory"
)

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	jwter  *auth.JWTer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := memory.NewUserRepo()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	engine := NewAPIEngine(zap.NewNop(), Deps{
		Users: users,
		Posts: memory.NewPostRepo(users),
		JWTer: jwter,
	})
	return &testAPI{t: t, engine: engine, jwter: jwter}
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var out map[string]any
	if len(w.Body.Bytes()) > 0 && json.Valid(w.Body.Bytes()) {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (a *testAPI) register(username, email, password string) map[string]any {
	a.t.Helper()
	w, out := a.do(http.MethodPost, "/api/auth/register", "",
		gin.H{"username": username, "email": email, "password": password})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("register %s: expected 201, got %d (%s)", username, w.Code, w.Body.String())
	}
	return out
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	w, out := a.do(http.MethodPost, "/api/auth/login", "",
		gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		a.t.Fatalf("login %s: expected 200, got %d (%s)", username, w.Code, w.Body.String())
	}
	tok, _ := out["token"].(string)
	if tok == "" {
		a.t.Fatalf("login %s: missing token in %v", username, out)
	}
	return tok
}

func (a *testAPI) createPost(token, title, content string) string {
	a.t.Helper()
	w, out := a.do(http.MethodPost, "/api/posts", token, gin.H{"title": title, "content": content})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("create post: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	id, _ := out["id"].(string)
	if id == "" {
		a.t.Fatalf("create post: missing id in %v", out)
	}
	return id
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w, out := a.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if out["status"] != "OK" {
		t.Fatalf("unexpected health body: %v", out)
	}
}

func TestRegisterLoginAndLikeScenario(t *testing.T) {
	a := newTestAPI(t)

	u := a.register("alice", "a@x.com", "pw123456")
	if u["username"] != "alice" || u["email"] != "a@x.com" {
		t.Fatalf("unexpected register body: %v", u)
	}
	if _, hasHash := u["passwordHash"]; hasHash {
		t.Fatalf("register must not expose the password hash")
	}

	aliceTok := a.login("alice", "pw123456")

	w, post := a.do(http.MethodPost, "/api/posts", aliceTok, gin.H{"title": "Hi", "content": "World"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	author := post["author"].(map[string]any)
	if author["username"] != "alice" {
		t.Fatalf("expected author alice, got %v", author)
	}
	postID := post["id"].(string)

	a.register("bob", "b@x.com", "pw123456")
	bobTok := a.login("bob", "pw123456")

	w, like := a.do(http.MethodPost, "/api/posts/"+postID+"/like", bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("like: expected 200, got %d", w.Code)
	}
	if like["isLiked"] != true || like["likeCount"] != float64(1) {
		t.Fatalf("expected liked with count 1, got %v", like)
	}

	w, like = a.do(http.MethodPost, "/api/posts/"+postID+"/like", bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unlike: expected 200, got %d", w.Code)
	}
	if like["isLiked"] != false || like["likeCount"] != float64(0) {
		t.Fatalf("expected unliked with count 0, got %v", like)
	}
}

func TestRegisterValidationAndDuplicate(t *testing.T) {
	a := newTestAPI(t)

	w, _ := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: expected 400, got %d", w.Code)
	}

	a.register("alice", "a@x.com", "pw123456")
	w, _ = a.do(http.MethodPost, "/api/auth/register", "",
		gin.H{"username": "alice", "email": "other@x.com", "password": "pw123456"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", w.Code)
	}
}

func TestLoginFailures(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "a@x.com", "pw123456")

	w, _ := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", w.Code)
	}
	w, _ = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}
}

func TestAuthRequiredOnMutations(t *testing.T) {
	a := newTestAPI(t)

	w, out := a.do(http.MethodPost, "/api/posts", "", gin.H{"title": "t", "content": "c"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", w.Code)
	}
	if out["error"] != "no token provided" {
		t.Fatalf("unexpected error body: %v", out)
	}

	w, _ = a.do(http.MethodPost, "/api/posts", "garbage.token.here", gin.H{"title": "t", "content": "c"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", w.Code)
	}

	// 令牌有效但账号已不存在
	ghost, err := a.jwter.Issue("no-such-user", "ghost")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w, _ = a.do(http.MethodPost, "/api/posts", ghost, gin.H{"title": "t", "content": "c"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("ghost identity: expected 401, got %d", w.Code)
	}
}

func TestUpdateOwnershipAndPrecedence(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "a@x.com", "pw123456")
	a.register("bob", "b@x.com", "pw123456")
	aliceTok := a.login("alice", "pw123456")
	bobTok := a.login("bob", "pw123456")
	postID := a.createPost(aliceTok, "title", "body")

	w, _ := a.do(http.MethodPut, "/api/posts/"+postID, bobTok, gin.H{"title": "hijack"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("bob editing alice's post: expected 403, got %d", w.Code)
	}
	w, _ = a.do(http.MethodPut, "/api/posts/no-such-id", aliceTok, gin.H{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("editing missing post: expected 404, got %d", w.Code)
	}
	// 空串按非法输入处理
	w, _ = a.do(http.MethodPut, "/api/posts/"+postID, aliceTok, gin.H{"title": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("explicit empty title: expected 400, got %d", w.Code)
	}

	w, out := a.do(http.MethodPut, "/api/posts/"+postID, aliceTok, gin.H{"content": "edited"})
	if w.Code != http.StatusOK {
		t.Fatalf("author update: expected 200, got %d", w.Code)
	}
	if out["title"] != "title" || out["content"] != "edited" {
		t.Fatalf("partial update went wrong: %v", out)
	}
}

func TestDeletePostCascades(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "a@x.com", "pw123456")
	a.register("bob", "b@x.com", "pw123456")
	aliceTok := a.login("alice", "pw123456")
	bobTok := a.login("bob", "pw123456")
	postID := a.createPost(aliceTok, "title", "body")

	w, _ := a.do(http.MethodPost, "/api/posts/"+postID+"/comments", bobTok, gin.H{"content": "hi"})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment: expected 201, got %d", w.Code)
	}

	w, _ = a.do(http.MethodDelete, "/api/posts/"+postID, bobTok, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("bob deleting alice's post: expected 403, got %d", w.Code)
	}
	w, out := a.do(http.MethodDelete, "/api/posts/"+postID, aliceTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("author delete: expected 200, got %d", w.Code)
	}
	if out["message"] == "" {
		t.Fatalf("expected a message body, got %v", out)
	}
	w, _ = a.do(http.MethodGet, "/api/posts/"+postID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted post: expected 404, got %d", w.Code)
	}
	w, _ = a.do(http.MethodGet, "/api/posts", "", nil)
	if strings.Contains(w.Body.String(), postID) {
		t.Fatalf("deleted post still listed")
	}
}

func TestCommentFlow(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "a@x.com", "pw123456")
	a.register("bob", "b@x.com", "pw123456")
	aliceTok := a.login("alice", "pw123456")
	bobTok := a.login("bob", "pw123456")
	postID := a.createPost(aliceTok, "title", "body")

	w, _ := a.do(http.MethodPost, "/api/posts/"+postID+"/comments", bobTok, gin.H{"content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("whitespace comment: expected 400, got %d", w.Code)
	}
	w, _ = a.do(http.MethodPost, "/api/posts/no-such-id/comments", bobTok, gin.H{"content": "hello"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("comment on missing post: expected 404, got %d", w.Code)
	}

	w, cm := a.do(http.MethodPost, "/api/posts/"+postID+"/comments", bobTok, gin.H{"content": " hello "})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment: expected 201, got %d", w.Code)
	}
	if cm["content"] != "hello" {
		t.Fatalf("expected trimmed comment, got %v", cm)
	}
	commentID := cm["id"].(string)

	// 只有评论作者能删
	w, _ = a.do(http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, aliceTok, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("post author deleting bob's comment: expected 403, got %d", w.Code)
	}
	w, _ = a.do(http.MethodDelete, "/api/posts/"+postID+"/comments/no-such-comment", bobTok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing comment: expected 404, got %d", w.Code)
	}
	w, _ = a.do(http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("comment author delete: expected 200, got %d", w.Code)
	}
	w, _ = a.do(http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, bobTok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleting twice: expected 404, got %d", w.Code)
	}
}

func TestAnonymousBrowsingOmitsIsLiked(t *testing.T) {
	a := newTestAPI(t)
	a.register("alice", "a@x.com", "pw123456")
	aliceTok := a.login("alice", "pw123456")
	postID := a.createPost(aliceTok, "title", "body")

	w, _ := a.do(http.MethodGet, "/api/posts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "isLiked") {
		t.Fatalf("anonymous list must omit isLiked: %s", w.Body.String())
	}

	w, _ = a.do(http.MethodGet, "/api/posts/"+postID, aliceTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "isLiked") {
		t.Fatalf("authenticated get must carry isLiked")
	}

	w, _ = a.do(http.MethodGet, "/api/posts/me/list", aliceTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me/list: expected 200, got %d", w.Code)
	}
	w, _ = a.do(http.MethodGet, "/api/posts/me/list", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me/list without token: expected 401, got %d", w.Code)
	}
}
