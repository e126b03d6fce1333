package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress/inkpress/internal/middleware"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/internal/session"
	"github.com/inkpress/inkpress/internal/store/memory"
)

// newTestRouter assembles the API routes over an in-memory store, mirroring
// the production wiring minus transport middleware.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st := memory.New()
	mgr := session.NewManager(st, session.Config{})
	authSvc := service.NewAuthService(st, mgr)
	postSvc := service.NewPostService(st)

	authHandler := NewAuthHandler(authSvc, mgr, logger)
	postHandler := NewPostHandler(postSvc, logger)

	r := chi.NewRouter()
	r.Use(middleware.CurrentUser(middleware.CurrentUserConfig{
		Logger:   logger,
		Sessions: mgr,
		Users:    authSvc,
	}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.With(middleware.RequireAuth()).Get("/mine", postHandler.Mine)
		r.With(middleware.RequireAuth()).Post("/", postHandler.Create)
		r.Get("/{idOrSlug}", postHandler.Get)
		r.With(middleware.RequireAuth()).Put("/{idOrSlug}", postHandler.Update)
		r.With(middleware.RequireAuth()).Delete("/{idOrSlug}", postHandler.Delete)
	})
	r.NotFound(NotFound)

	return r
}

func doJSON(t *testing.T, h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

// signup registers a user and returns the issued session cookie.
func signup(t *testing.T, h http.Handler, name, email string) *http.Cookie {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/signup",
		`{"name":"`+name+`","email":"`+email+`","password":"password1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func TestSignupFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ADA@X.com","password":"password1"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("response missing user wrapper: %v", body)
	}
	if user["email"] != "ada@x.com" {
		t.Errorf("email = %v, want normalized ada@x.com", user["email"])
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("response leaks password material: %s", rec.Body.String())
	}

	c := sessionCookie(t, rec)
	if !c.HttpOnly || c.Value == "" {
		t.Errorf("session cookie not usable: %+v", c)
	}
}

func TestSignupRejectsBadInput(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed_json", `{"name":`, http.StatusBadRequest},
		{"missing_fields", `{"email":"a@b.com","password":"password1"}`, http.StatusBadRequest},
		{"whitespace_email", `{"name":"Ada","email":"   ","password":"password1"}`, http.StatusBadRequest},
		{"short_password", `{"name":"Ada","email":"a@b.com","password":"short"}`, http.StatusBadRequest},
		{"long_password", `{"name":"Ada","email":"a@b.com","password":"` + strings.Repeat("p", 73) + `"}`, http.StatusBadRequest},
		{"long_name", `{"name":"` + strings.Repeat("a", 101) + `","email":"a@b.com","password":"password1"}`, http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/auth/signup", test.body)
			if rec.Code != test.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, test.want, rec.Body.String())
			}
			if _, ok := decodeBody(t, rec)["message"]; !ok {
				t.Errorf("error body lacks message: %s", rec.Body.String())
			}
		})
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	h := newTestRouter(t)
	signup(t, h, "Ada", "ada@x.com")

	rec := doJSON(t, h, http.MethodPost, "/auth/signup",
		`{"name":"Eve","email":"ADA@X.COM","password":"password2"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Email already registered" {
		t.Errorf("message = %v", msg)
	}
}

func TestLoginAndMe(t *testing.T) {
	h := newTestRouter(t)
	signup(t, h, "Ada", "ada@x.com")

	rec := doJSON(t, h, http.MethodPost, "/auth/login",
		`{"email":"ada@x.com","password":"password1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	c := sessionCookie(t, rec)

	me := doJSON(t, h, http.MethodGet, "/auth/me", "", c)
	if me.Code != http.StatusOK {
		t.Fatalf("me status = %d: %s", me.Code, me.Body.String())
	}
	user, ok := decodeBody(t, me)["user"].(map[string]any)
	if !ok || user["email"] != "ada@x.com" {
		t.Fatalf("unexpected me body: %s", me.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newTestRouter(t)
	signup(t, h, "Ada", "ada@x.com")

	for name, body := range map[string]string{
		"wrong_password": `{"email":"ada@x.com","password":"wrong-password"}`,
		"unknown_email":  `{"email":"nobody@x.com","password":"password1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/auth/login", body)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
			}
			if msg := decodeBody(t, rec)["message"]; msg != "Invalid credentials" {
				t.Errorf("message = %v, want Invalid credentials", msg)
			}
		})
	}
}

func TestMeWithoutSession(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/auth/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Not authenticated" {
		t.Errorf("message = %v", msg)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	h := newTestRouter(t)
	c := signup(t, h, "Ada", "ada@x.com")

	rec := doJSON(t, h, http.MethodPost, "/auth/logout", "", c)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d: %s", rec.Code, rec.Body.String())
	}
	cleared := sessionCookie(t, rec)
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("cookie not cleared: %+v", cleared)
	}

	// The old token is dead server-side even if the client replays it.
	me := doJSON(t, h, http.MethodGet, "/auth/me", "", c)
	if me.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d: %s", me.Code, me.Body.String())
	}

	// Logout without any session still succeeds.
	again := doJSON(t, h, http.MethodPost, "/auth/logout", "")
	if again.Code != http.StatusOK {
		t.Fatalf("anonymous logout = %d: %s", again.Code, again.Body.String())
	}
}

func TestCreatePostRequiresSession(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/posts/",
		`{"title":"T","topic":"Go","excerpt":"e","content":"c"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Authentication required" {
		t.Errorf("message = %v", msg)
	}
}

func TestCreateAndFetchPost(t *testing.T) {
	h := newTestRouter(t)
	c := signup(t, h, "Ada", "ada@x.com")

	rec := doJSON(t, h, http.MethodPost, "/posts/",
		`{"title":"Hello, World!","topic":"Go","excerpt":"First","content":"# Hi"}`, c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	post, ok := decodeBody(t, rec)["post"].(map[string]any)
	if !ok {
		t.Fatalf("response missing post wrapper: %s", rec.Body.String())
	}
	if post["slug"] != "hello-world" {
		t.Errorf("slug = %v", post["slug"])
	}
	if post["readTime"] != "5 min read" {
		t.Errorf("readTime = %v, want default", post["readTime"])
	}
	if post["authorName"] != "Ada" {
		t.Errorf("authorName = %v", post["authorName"])
	}

	bySlug := doJSON(t, h, http.MethodGet, "/posts/hello-world", "")
	if bySlug.Code != http.StatusOK {
		t.Fatalf("get by slug = %d: %s", bySlug.Code, bySlug.Body.String())
	}

	id, _ := post["id"].(string)
	byID := doJSON(t, h, http.MethodGet, "/posts/"+id, "")
	if byID.Code != http.StatusOK {
		t.Fatalf("get by id = %d: %s", byID.Code, byID.Body.String())
	}
}

func TestGetMissingPost(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/posts/no-such-post", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Post not found" {
		t.Errorf("message = %v", msg)
	}
}

func TestUpdateByNonAuthorForbidden(t *testing.T) {
	h := newTestRouter(t)
	author := signup(t, h, "Ada", "ada@x.com")
	intruder := signup(t, h, "Eve", "eve@x.com")

	created := doJSON(t, h, http.MethodPost, "/posts/",
		`{"title":"Ada Post","topic":"Go","excerpt":"e","content":"c"}`, author)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", created.Code, created.Body.String())
	}

	rec := doJSON(t, h, http.MethodPut, "/posts/ada-post",
		`{"title":"Hijacked"}`, intruder)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}

	// Author update goes through.
	ok := doJSON(t, h, http.MethodPut, "/posts/ada-post",
		`{"topic":"Databases"}`, author)
	if ok.Code != http.StatusOK {
		t.Fatalf("author update = %d: %s", ok.Code, ok.Body.String())
	}
	post, _ := decodeBody(t, ok)["post"].(map[string]any)
	if post["topic"] != "Databases" {
		t.Errorf("topic = %v", post["topic"])
	}
}

func TestDeletePost(t *testing.T) {
	h := newTestRouter(t)
	c := signup(t, h, "Ada", "ada@x.com")

	created := doJSON(t, h, http.MethodPost, "/posts/",
		`{"title":"Doomed","topic":"Go","excerpt":"e","content":"c"}`, c)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", created.Code, created.Body.String())
	}

	rec := doJSON(t, h, http.MethodDelete, "/posts/doomed", "", c)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Post deleted" {
		t.Errorf("message = %v", msg)
	}

	gone := doJSON(t, h, http.MethodGet, "/posts/doomed", "")
	if gone.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", gone.Code)
	}
}

func TestListAndMine(t *testing.T) {
	h := newTestRouter(t)
	ada := signup(t, h, "Ada", "ada@x.com")
	zoe := signup(t, h, "Zoe", "zoe@x.com")

	for _, req := range []struct {
		cookie *http.Cookie
		title  string
	}{
		{ada, "Ada One"},
		{ada, "Ada Two"},
		{zoe, "Zoe One"},
	} {
		rec := doJSON(t, h, http.MethodPost, "/posts/",
			`{"title":"`+req.title+`","topic":"Go","excerpt":"e","content":"c"}`, req.cookie)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %q = %d: %s", req.title, rec.Code, rec.Body.String())
		}
	}

	all := doJSON(t, h, http.MethodGet, "/posts/?sort=author", "")
	if all.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", all.Code, all.Body.String())
	}
	posts, ok := decodeBody(t, all)["posts"].([]any)
	if !ok || len(posts) != 3 {
		t.Fatalf("unexpected posts payload: %s", all.Body.String())
	}

	mine := doJSON(t, h, http.MethodGet, "/posts/mine", "", ada)
	if mine.Code != http.StatusOK {
		t.Fatalf("mine status = %d: %s", mine.Code, mine.Body.String())
	}
	minePosts, _ := decodeBody(t, mine)["posts"].([]any)
	if len(minePosts) != 2 {
		t.Fatalf("mine returned %d posts, want 2", len(minePosts))
	}

	anon := doJSON(t, h, http.MethodGet, "/posts/mine", "")
	if anon.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous mine = %d", anon.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if _, ok := decodeBody(t, rec)["message"]; !ok {
		t.Errorf("404 body not JSON message: %s", rec.Body.String())
	}
}
