package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/store"
)

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	ctx := context.Background()

	amySessions, _ := json.Marshal([]core.SessionRecord{
		{UserID: "amy", ExerciseID: "wall_pass", Signals: map[string]float64{core.SignalRating: 5}},
		{UserID: "amy", ExerciseID: "cone_weave", Signals: map[string]float64{core.SignalRating: 3}},
	})
	benSessions, _ := json.Marshal([]core.SessionRecord{
		{UserID: "ben", ExerciseID: "wall_pass", Signals: map[string]float64{core.SignalRating: 4}},
	})
	amyProfile, _ := json.Marshal(core.UserProfile{UserID: "amy", Position: "striker"})
	catalog, _ := json.Marshal(map[string]*core.Exercise{
		"wall_pass":  {Name: "Wall Pass", SkillType: "Passing"},
		"cone_weave": {ID: "cone_weave", Name: "Cone Weave", SkillType: "Dribbling"},
	})

	_ = ms.Set(ctx, DefaultSessionPrefix+"amy", amySessions)
	_ = ms.Set(ctx, DefaultSessionPrefix+"ben", benSessions)
	_ = ms.Set(ctx, DefaultProfilePrefix+"amy", amyProfile)
	_ = ms.Set(ctx, DefaultCatalogKey, catalog)
	return ms
}

func TestStoreLoaderLoad(t *testing.T) {
	loader := &StoreLoader{Store: seedStore(t)}

	ds, err := loader.Load(context.Background(), []string{"ben", "amy", "zoe"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(ds.Records))
	}
	// 按 userID 升序拼接：amy 的两条在前
	if ds.Records[0].UserID != "amy" || ds.Records[2].UserID != "ben" {
		t.Fatalf("record order: %s .. %s", ds.Records[0].UserID, ds.Records[2].UserID)
	}
	if len(ds.Profiles) != 1 || ds.Profiles["amy"] == nil || ds.Profiles["amy"].Position != "striker" {
		t.Fatalf("profiles = %+v", ds.Profiles)
	}
	if len(ds.Catalog) != 2 {
		t.Fatalf("catalog = %d entries", len(ds.Catalog))
	}
	// 文档内缺 ID 时以键名回填
	if ds.Catalog["wall_pass"].ID != "wall_pass" {
		t.Fatalf("catalog id backfill failed: %+v", ds.Catalog["wall_pass"])
	}
}

func TestStoreLoaderMissingCatalog(t *testing.T) {
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	loader := &StoreLoader{Store: ms}

	catalog, err := loader.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("missing catalog must not error: %v", err)
	}
	if len(catalog) != 0 {
		t.Fatalf("catalog = %+v, want empty", catalog)
	}
}

func TestStoreLoaderCorruptDocument(t *testing.T) {
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	_ = ms.Set(context.Background(), DefaultSessionPrefix+"amy", []byte("not json"))

	loader := &StoreLoader{Store: ms}
	_, err := loader.LoadSessions(context.Background(), []string{"amy"})
	if err == nil {
		t.Fatal("corrupt document must fail")
	}
	if de := core.GetDomainError(err); de == nil || de.Code != core.ErrorCodeInvalidInput {
		t.Fatalf("err = %v, want INVALID_INPUT domain error", err)
	}
}

func TestStoreLoaderNoStore(t *testing.T) {
	loader := &StoreLoader{}
	_, err := loader.Load(context.Background(), []string{"amy"})
	if !core.IsUnavailable(err) {
		t.Fatalf("err = %v, want UNAVAILABLE", err)
	}
}
