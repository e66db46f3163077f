package graphqlapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"escapade/internal/app/features/graphqlapi"
	userstore "escapade/internal/app/store/users"
	"escapade/internal/app/system/auth"
	"escapade/internal/testutil"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*mongo.Database, http.Handler) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	mgr := auth.NewManager(auth.NewTokenManager("test-signing-key", time.Hour), zap.NewNop())
	mgr.SetUserFetcher(userstore.NewFetcher(db))

	h, err := graphqlapi.NewHandler(db, mgr, zap.NewNop())
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}

	r := chi.NewRouter()
	r.Mount("/graphql", graphqlapi.Routes(h))
	return db, r
}

func exec(t *testing.T, srv http.Handler, req *http.Request) (map[string]any, []map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return testutil.DecodeGraphQL(t, rec)
}

func firstErrorCode(t *testing.T, errs []map[string]any) (string, string) {
	t.Helper()
	if len(errs) == 0 {
		t.Fatal("expected at least one graphql error")
	}
	msg, _ := errs[0]["message"].(string)
	ext, _ := errs[0]["extensions"].(map[string]any)
	code, _ := ext["code"].(string)
	return msg, code
}

func TestGraphQL_GuardedMutationWithoutToken(t *testing.T) {
	_, srv := newTestServer(t)

	req := testutil.GraphQLRequest(t, `mutation {
		addFavoriteActivity(activityId: "64f000000000000000000001") { id }
	}`, nil)
	_, errs := exec(t, srv, req)

	msg, code := firstErrorCode(t, errs)
	if msg != "Invalid token" {
		t.Errorf("message = %q, want %q", msg, "Invalid token")
	}
	if code != "UNAUTHENTICATED" {
		t.Errorf("extensions.code = %q, want UNAUTHENTICATED", code)
	}
}

func TestGraphQL_SignUpSignInAndBearerIdentity(t *testing.T) {
	_, srv := newTestServer(t)

	data, errs := exec(t, srv, testutil.GraphQLRequest(t, `mutation {
		signUp(signUpInput: {
			firstName: "Nora"
			lastName: "Lang"
			email: "Nora@Example.com"
			password: "correct horse"
		}) { token user { email role } }
	}`, nil))
	if len(errs) > 0 {
		t.Fatalf("signUp errors: %v", errs)
	}
	payload := data["signUp"].(map[string]any)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("signUp returned empty token")
	}
	user := payload["user"].(map[string]any)
	if got := user["email"]; got != "nora@example.com" {
		t.Errorf("email = %v, want normalized nora@example.com", got)
	}
	if got := user["role"]; got != "user" {
		t.Errorf("role = %v, want user", got)
	}

	// Same email again must not reveal the account exists.
	_, errs = exec(t, srv, testutil.GraphQLRequest(t, `mutation {
		signUp(signUpInput: {
			firstName: "Other"
			lastName: "Person"
			email: "nora@example.com"
			password: "another pass"
		}) { token }
	}`, nil))
	msg, code := firstErrorCode(t, errs)
	if msg != "Invalid credentials" || code != "UNAUTHENTICATED" {
		t.Errorf("duplicate signUp = (%q, %q), want (Invalid credentials, UNAUTHENTICATED)", msg, code)
	}

	data, errs = exec(t, srv, testutil.GraphQLRequest(t, `mutation {
		signIn(email: "nora@example.com", password: "correct horse") { token }
	}`, nil))
	if len(errs) > 0 {
		t.Fatalf("signIn errors: %v", errs)
	}
	token = data["signIn"].(map[string]any)["token"].(string)

	_, errs = exec(t, srv, testutil.GraphQLRequest(t, `mutation {
		signIn(email: "nora@example.com", password: "wrong") { token }
	}`, nil))
	if msg, _ := firstErrorCode(t, errs); msg != "Invalid credentials" {
		t.Errorf("wrong password message = %q, want Invalid credentials", msg)
	}

	// The issued token resolves the caller through the bearer middleware.
	req := testutil.GraphQLRequest(t, `{ getMe { firstName lastName email } }`, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	data, errs = exec(t, srv, req)
	if len(errs) > 0 {
		t.Fatalf("getMe errors: %v", errs)
	}
	me := data["getMe"].(map[string]any)
	if me["firstName"] != "Nora" || me["lastName"] != "Lang" {
		t.Errorf("getMe = %v, want Nora Lang", me)
	}
}

func TestGraphQL_ActivityQueriesAndCreate(t *testing.T) {
	db, srv := newTestServer(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Iris", "Moreau", "iris@example.com")

	req := testutil.GraphQLRequest(t, `mutation {
		createActivity(createActivityInput: {
			name: "Canal kayak"
			city: "Lyon"
			description: "<p>Paddle the old canal</p><script>x()</script>"
			price: 35
		}) { id name city description price owner { email } isFavorite }
	}`, nil)
	req = testutil.WithUser(req, testutil.RegularUser(owner.ID))
	data, errs := exec(t, srv, req)
	if len(errs) > 0 {
		t.Fatalf("createActivity errors: %v", errs)
	}
	created := data["createActivity"].(map[string]any)
	if created["name"] != "Canal kayak" || created["city"] != "Lyon" {
		t.Errorf("created = %v", created)
	}
	if desc, _ := created["description"].(string); desc != "<p>Paddle the old canal</p>" {
		t.Errorf("description = %q, want script stripped", desc)
	}
	if created["isFavorite"] != false {
		t.Error("fresh activity should not be a favorite")
	}
	if created["owner"].(map[string]any)["email"] != "iris@example.com" {
		t.Errorf("owner = %v", created["owner"])
	}
	activityID := created["id"].(string)

	data, errs = exec(t, srv, testutil.GraphQLRequest(t, `query ($id: ID!) {
		getActivity(id: $id) { name price }
	}`, map[string]any{"id": activityID}))
	if len(errs) > 0 {
		t.Fatalf("getActivity errors: %v", errs)
	}
	if data["getActivity"].(map[string]any)["name"] != "Canal kayak" {
		t.Errorf("getActivity = %v", data["getActivity"])
	}

	_, errs = exec(t, srv, testutil.GraphQLRequest(t, `query ($id: ID!) {
		getActivity(id: $id) { name }
	}`, map[string]any{"id": "not-a-hex-id"}))
	if _, code := firstErrorCode(t, errs); code != "BAD_USER_INPUT" {
		t.Errorf("malformed id code = %q, want BAD_USER_INPUT", code)
	}

	fx.CreateActivity(ctx, "Wine tasting", "Lyon", 60, owner.ID)
	fx.CreateActivity(ctx, "Old town walk", "Porto", 0, owner.ID)

	data, errs = exec(t, srv, testutil.GraphQLRequest(t, `{ getCities }`, nil))
	if len(errs) > 0 {
		t.Fatalf("getCities errors: %v", errs)
	}
	cities := data["getCities"].([]any)
	if len(cities) != 2 {
		t.Errorf("getCities = %v, want Lyon and Porto", cities)
	}

	data, errs = exec(t, srv, testutil.GraphQLRequest(t, `{
		getActivitiesByCity(city: "Lyon", activity: "KAYAK") { name }
	}`, nil))
	if len(errs) > 0 {
		t.Fatalf("getActivitiesByCity errors: %v", errs)
	}
	matches := data["getActivitiesByCity"].([]any)
	if len(matches) != 1 || matches[0].(map[string]any)["name"] != "Canal kayak" {
		t.Errorf("getActivitiesByCity = %v, want only Canal kayak", matches)
	}

	data, errs = exec(t, srv, testutil.GraphQLRequest(t, `{ getLatestActivities { name } }`, nil))
	if len(errs) > 0 {
		t.Fatalf("getLatestActivities errors: %v", errs)
	}
	if got := len(data["getLatestActivities"].([]any)); got != 3 {
		t.Errorf("getLatestActivities default size = %d, want 3", got)
	}
}

func TestGraphQL_FavoriteFlow(t *testing.T) {
	db, srv := newTestServer(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Paul", "Kim", "paul@example.com")
	a := fx.CreateActivity(ctx, "Surf lesson", "Biarritz", 80, user.ID)
	b := fx.CreateActivity(ctx, "Food market", "Biarritz", 15, user.ID)
	session := testutil.RegularUser(user.ID)

	authed := func(query string, vars map[string]any) *http.Request {
		return testutil.WithUser(testutil.GraphQLRequest(t, query, vars), session)
	}

	data, errs := exec(t, srv, authed(`mutation ($id: ID!) {
		addFavoriteActivity(activityId: $id) { position activity { name } }
	}`, map[string]any{"id": a.ID.Hex()}))
	if len(errs) > 0 {
		t.Fatalf("add errors: %v", errs)
	}
	fav := data["addFavoriteActivity"].(map[string]any)
	if fav["activity"].(map[string]any)["name"] != "Surf lesson" {
		t.Errorf("favorite = %v", fav)
	}

	_, errs = exec(t, srv, authed(`mutation ($id: ID!) {
		addFavoriteActivity(activityId: $id) { id }
	}`, map[string]any{"id": a.ID.Hex()}))
	if _, code := firstErrorCode(t, errs); code != "CONFLICT" {
		t.Errorf("duplicate add code = %q, want CONFLICT", code)
	}

	data, errs = exec(t, srv, authed(`mutation ($id: ID!) {
		toggleFavoriteActivity(activityId: $id)
	}`, map[string]any{"id": b.ID.Hex()}))
	if len(errs) > 0 || data["toggleFavoriteActivity"] != true {
		t.Fatalf("toggle on = (%v, %v), want true", data, errs)
	}

	data, errs = exec(t, srv, authed(`{ getFavoriteActivities { name isFavorite } }`, nil))
	if len(errs) > 0 {
		t.Fatalf("list errors: %v", errs)
	}
	list := data["getFavoriteActivities"].([]any)
	if len(list) != 2 ||
		list[0].(map[string]any)["name"] != "Surf lesson" ||
		list[1].(map[string]any)["name"] != "Food market" {
		t.Fatalf("favorites = %v, want insertion order", list)
	}
	if list[0].(map[string]any)["isFavorite"] != true {
		t.Error("listed favorite should report isFavorite true")
	}

	data, errs = exec(t, srv, authed(`mutation ($ids: [ID!]!) {
		reorderFavoriteActivities(activityIds: $ids) { name }
	}`, map[string]any{"ids": []any{b.ID.Hex(), a.ID.Hex()}}))
	if len(errs) > 0 {
		t.Fatalf("reorder errors: %v", errs)
	}
	reordered := data["reorderFavoriteActivities"].([]any)
	if reordered[0].(map[string]any)["name"] != "Food market" {
		t.Errorf("reordered = %v, want Food market first", reordered)
	}

	_, errs = exec(t, srv, authed(`mutation ($ids: [ID!]!) {
		reorderFavoriteActivities(activityIds: $ids) { name }
	}`, map[string]any{"ids": []any{b.ID.Hex()}}))
	if _, code := firstErrorCode(t, errs); code != "BAD_USER_INPUT" {
		t.Errorf("partial reorder code = %q, want BAD_USER_INPUT", code)
	}

	data, errs = exec(t, srv, authed(`mutation ($id: ID!) {
		removeFavoriteActivity(activityId: $id)
	}`, map[string]any{"id": a.ID.Hex()}))
	if len(errs) > 0 || data["removeFavoriteActivity"] != true {
		t.Fatalf("remove = (%v, %v), want true", data, errs)
	}
	data, _ = exec(t, srv, authed(`mutation ($id: ID!) {
		removeFavoriteActivity(activityId: $id)
	}`, map[string]any{"id": a.ID.Hex()}))
	if data["removeFavoriteActivity"] != false {
		t.Error("second remove should report false")
	}
}

func TestGraphQL_SetDebugModeRequiresAdmin(t *testing.T) {
	db, srv := newTestServer(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Sam", "Reed", "sam@example.com")
	admin := fx.CreateAdmin(ctx, "root@example.com")

	const mutation = `mutation { setDebugMode(enabled: true) { debugMode } }`

	req := testutil.WithUser(testutil.GraphQLRequest(t, mutation, nil), testutil.RegularUser(user.ID))
	_, errs := exec(t, srv, req)
	if msg, _ := firstErrorCode(t, errs); msg != "Invalid token" {
		t.Errorf("non-admin message = %q, want Invalid token", msg)
	}

	req = testutil.WithUser(testutil.GraphQLRequest(t, mutation, nil), testutil.AdminUser(admin.ID))
	data, errs := exec(t, srv, req)
	if len(errs) > 0 {
		t.Fatalf("admin setDebugMode errors: %v", errs)
	}
	if data["setDebugMode"].(map[string]any)["debugMode"] != true {
		t.Errorf("setDebugMode = %v, want debugMode true", data["setDebugMode"])
	}
}
