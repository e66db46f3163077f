package activitystore_test

import (
	"strings"
	"testing"
	"time"

	activitystore "escapade/internal/app/store/activities"
	"escapade/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Own", "Er", "owner@example.com")

	created, err := store.Create(ctx, owner.ID, activitystore.CreateInput{
		Name:        "Seine river cruise",
		City:        " Paris ",
		Description: "<p>One hour</p><script>alert(1)</script>",
		Price:       25,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.City != "Paris" {
		t.Errorf("city not normalized: %q", created.City)
	}
	if strings.Contains(created.Description, "script") {
		t.Errorf("description not sanitized: %q", created.Description)
	}
	if created.OwnerID != owner.ID {
		t.Error("owner not attached")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Seine river cruise" {
		t.Errorf("name: got %q", got.Name)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()

	if _, err := store.Create(ctx, owner, activitystore.CreateInput{City: "Paris", Price: 10}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := store.Create(ctx, owner, activitystore.CreateInput{Name: "Hike", Price: 10}); err == nil {
		t.Error("expected error for missing city")
	}
	if _, err := store.Create(ctx, owner, activitystore.CreateInput{Name: "Hike", City: "Paris", Price: -1}); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != activitystore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Own", "Er", "owner@example.com")

	names := []string{"first", "second", "third"}
	for _, n := range names {
		if _, err := store.Create(ctx, owner.ID, activitystore.CreateInput{Name: n, City: "Lyon", Price: 5}); err != nil {
			t.Fatalf("Create %q failed: %v", n, err)
		}
		time.Sleep(5 * time.Millisecond) // created_at has millisecond precision in BSON
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List: got %d activities, want 3", len(all))
	}
	if all[0].Name != "third" || all[2].Name != "first" {
		t.Errorf("not newest first: %q, %q, %q", all[0].Name, all[1].Name, all[2].Name)
	}

	latest, err := store.Latest(ctx, 0)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(latest) != activitystore.DefaultLatestLimit {
		t.Errorf("Latest default: got %d, want %d", len(latest), activitystore.DefaultLatestLimit)
	}

	two, err := store.Latest(ctx, 2)
	if err != nil {
		t.Fatalf("Latest(2) failed: %v", err)
	}
	if len(two) != 2 || two[0].Name != "third" {
		t.Errorf("Latest(2): got %d entries, first %q", len(two), two[0].Name)
	}
}

func TestStore_ListByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "Alice", "A", "alice@example.com")
	bob := fixtures.CreateUser(ctx, "Bob", "B", "bob@example.com")

	fixtures.CreateActivity(ctx, "Alice one", "Nice", 10, alice.ID)
	fixtures.CreateActivity(ctx, "Bob one", "Nice", 10, bob.ID)

	mine, err := store.ListByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Alice one" {
		t.Errorf("ListByOwner: got %+v", mine)
	}
}

func TestStore_GetByIDs_DropsMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Own", "Er", "owner@example.com")
	a := fixtures.CreateActivity(ctx, "Real", "Nice", 10, owner.ID)

	got, err := store.GetByIDs(ctx, []primitive.ObjectID{a.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("GetByIDs: got %d results, want just the existing one", len(got))
	}

	none, err := store.GetByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetByIDs(nil) failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("GetByIDs(nil): got %d results, want 0", len(none))
	}
}

func TestStore_Cities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Own", "Er", "owner@example.com")
	fixtures.CreateActivity(ctx, "A", "Paris", 10, owner.ID)
	fixtures.CreateActivity(ctx, "B", "Paris", 20, owner.ID)
	fixtures.CreateActivity(ctx, "C", "Lyon", 30, owner.ID)

	cities, err := store.Cities(ctx)
	if err != nil {
		t.Fatalf("Cities failed: %v", err)
	}
	if len(cities) != 2 {
		t.Errorf("Cities: got %v, want 2 distinct values", cities)
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Own", "Er", "owner@example.com")
	fixtures.CreateActivity(ctx, "Canal hike", "Paris", 50, owner.ID)
	fixtures.CreateActivity(ctx, "Museum visit", "Paris", 50, owner.ID)
	fixtures.CreateActivity(ctx, "Night Hike", "Paris", 80, owner.ID)

	// city + name substring (case-insensitive) + exact price
	price := 50
	got, err := store.Search(ctx, "Paris", "hike", &price)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Canal hike" {
		t.Errorf("Search: got %+v, want only Canal hike", got)
	}

	// city only
	all, err := store.Search(ctx, "Paris", "", nil)
	if err != nil {
		t.Fatalf("Search city-only failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Search city-only: got %d, want 3", len(all))
	}

	// name filter is case-insensitive
	hikes, err := store.Search(ctx, "Paris", "HIKE", nil)
	if err != nil {
		t.Fatalf("Search name failed: %v", err)
	}
	if len(hikes) != 2 {
		t.Errorf("Search name: got %d, want 2", len(hikes))
	}
}
